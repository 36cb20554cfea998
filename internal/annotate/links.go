package annotate

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/scout-genomics/scout/internal/domain"
)

// Links are the external resource URLs of a variant view. Builders are null
// safe: a link is empty when the annotation it needs is missing.
type Links struct {
	Gnomad     string   `json:"gnomad,omitempty"`
	ExAC       string   `json:"exac,omitempty"`
	UCSC       string   `json:"ucsc,omitempty"`
	Alamut     string   `json:"alamut,omitempty"`
	Marrvel    string   `json:"marrvel,omitempty"`
	Mitomap    string   `json:"mitomap,omitempty"`
	HmtVar     string   `json:"hmtvar,omitempty"`
	Stripy     string   `json:"stripy,omitempty"`
	Cosmic     []string `json:"cosmic,omitempty"`
	CBioPortal string   `json:"cbioportal,omitempty"`
	CIViC      string   `json:"civic,omitempty"`

	Genes []GeneLinks `json:"genes,omitempty"`
}

// GeneLinks are the per-gene external resources.
type GeneLinks struct {
	HgncID    int    `json:"hgnc_id"`
	GeneNames string `json:"genenames,omitempty"`
	OMIM      string `json:"omim,omitempty"`
	Ensembl   string `json:"ensembl,omitempty"`
	GenCC     string `json:"gencc,omitempty"`
	ClinGen   string `json:"clingen,omitempty"`
	PanelApp  string `json:"panelapp,omitempty"`
}

// BuildLinks assembles every external link of the variant.
func BuildLinks(institute *domain.Institute, kase *domain.Case, variant *domain.Variant) Links {
	build := domain.NormalizeBuild(kase.GenomeBuild)
	links := Links{
		Gnomad:  GnomadLink(variant, build),
		ExAC:    ExACLink(variant),
		UCSC:    ucscLink(variant, build),
		Alamut:  alamutLink(institute, variant),
		Marrvel: marrvelLink(variant, build),
		Stripy:  stripyLink(variant),
	}
	if variant.IsMitochondrial() {
		links.Mitomap = mitomapLink(variant)
		links.HmtVar = hmtvarLink(variant)
	}
	for _, cosmicID := range variant.CosmicIDs {
		links.Cosmic = append(links.Cosmic,
			"https://cancer.sanger.ac.uk/cosmic/search?q="+url.QueryEscape(cosmicID))
	}
	if variant.Category == domain.CategoryCancer || variant.Category == domain.CategoryCancerSV {
		links.CBioPortal = cbioportalLink(variant)
		links.CIViC = civicLink(variant)
	}
	for i := range variant.Genes {
		links.Genes = append(links.Genes, buildGeneLinks(&variant.Genes[i], build))
	}
	return links
}

func buildGeneLinks(gene *domain.GeneAnnotation, build string) GeneLinks {
	gl := GeneLinks{HgncID: gene.HgncID}
	gl.GeneNames = fmt.Sprintf("https://www.genenames.org/data/gene-symbol-report/#!/hgnc_id/HGNC:%d", gene.HgncID)
	gl.GenCC = fmt.Sprintf("https://search.thegencc.org/genes/HGNC:%d", gene.HgncID)
	gl.ClinGen = fmt.Sprintf("https://search.clinicalgenome.org/kb/genes/HGNC:%d", gene.HgncID)
	if gene.HgncSymbol != "" {
		gl.OMIM = "https://www.omim.org/search/?search=" + url.QueryEscape(gene.HgncSymbol)
		gl.PanelApp = "https://panelapp.genomicsengland.co.uk/panels/entities/" + url.PathEscape(gene.HgncSymbol)
		host := "grch37.ensembl.org"
		if build == "38" {
			host = "www.ensembl.org"
		}
		gl.Ensembl = fmt.Sprintf("https://%s/Homo_sapiens/Gene/Summary?g=%s", host, url.QueryEscape(gene.HgncSymbol))
	}
	return gl
}

// GnomadLink links the gnomAD variant page; empty for variants gnomAD cannot
// address.
func GnomadLink(variant *domain.Variant, build string) string {
	if variant.Chromosome == "" || variant.Reference == "" || variant.Alternative == "" {
		return ""
	}
	dataset := "gnomad_r2_1"
	if domain.NormalizeBuild(build) == "38" {
		dataset = "gnomad_r4"
	}
	return fmt.Sprintf("https://gnomad.broadinstitute.org/variant/%s-%d-%s-%s?dataset=%s",
		variant.Chromosome, variant.Position, variant.Reference, variant.Alternative, dataset)
}

// ExACLink links the ExAC browser entry through gnomAD's legacy dataset.
func ExACLink(variant *domain.Variant) string {
	if variant.ExacFrequency == nil || variant.Chromosome == "" {
		return ""
	}
	return fmt.Sprintf("https://gnomad.broadinstitute.org/variant/%s-%d-%s-%s?dataset=exac",
		variant.Chromosome, variant.Position, variant.Reference, variant.Alternative)
}

func ucscLink(variant *domain.Variant, build string) string {
	if variant.Chromosome == "" {
		return ""
	}
	db := "hg19"
	if build == "38" {
		db = "hg38"
	}
	end := variant.End
	if end == 0 {
		end = variant.Position
	}
	return fmt.Sprintf("http://genome.ucsc.edu/cgi-bin/hgTracks?db=%s&position=chr%s:%d-%d&dgv=pack&knownGene=pack&omimGene=pack",
		db, variant.Chromosome, variant.Position, end)
}

// alamutLink builds the Alamut Visual Plus deep link when the institute
// carries an API key.
func alamutLink(institute *domain.Institute, variant *domain.Variant) string {
	if institute == nil || institute.AlamutKey == "" {
		return ""
	}
	link := fmt.Sprintf("https://alamut.interactive-biosoftware.com/show?request=%s:%d%s>%s&apikey=%s",
		variant.Chromosome, variant.Position, variant.Reference, variant.Alternative,
		url.QueryEscape(institute.AlamutKey))
	if institute.AlamutInstitution != "" {
		link += "&institution=" + url.QueryEscape(institute.AlamutInstitution)
	}
	return link
}

func marrvelLink(variant *domain.Variant, build string) string {
	if variant.Chromosome == "" || variant.Reference == "" || variant.Alternative == "" {
		return ""
	}
	// MARRVEL addresses hg19 coordinates only.
	if build != "37" {
		return ""
	}
	return fmt.Sprintf("http://marrvel.org/search/variant/%s-%d%s>%s",
		variant.Chromosome, variant.Position, variant.Reference, variant.Alternative)
}

func mitomapLink(variant *domain.Variant) string {
	return fmt.Sprintf("https://mitomap.org/cgi-bin/search_allele?starting=%d&ending=%d",
		variant.Position, variant.Position)
}

func hmtvarLink(variant *domain.Variant) string {
	if variant.Reference == "" || variant.Alternative == "" {
		return ""
	}
	return fmt.Sprintf("https://www.hmtvar.uniba.it/api/main/mutation/%s%d%s",
		variant.Reference, variant.Position, variant.Alternative)
}

// stripyLink links the STRipy locus page for repeat expansions.
func stripyLink(variant *domain.Variant) string {
	if variant.Category != domain.CategorySTR || variant.StrRepID == "" {
		return ""
	}
	locus := strings.SplitN(variant.StrRepID, "_", 2)[0]
	return "https://stripy.org/database/" + url.PathEscape(locus)
}

func cbioportalLink(variant *domain.Variant) string {
	if len(variant.Genes) == 0 || variant.Genes[0].HgncSymbol == "" {
		return ""
	}
	return "https://www.cbioportal.org/results/mutations?gene_list=" +
		url.QueryEscape(variant.Genes[0].HgncSymbol) +
		"&cancer_study_list=5c8a7d55e4b046111fee2296"
}

func civicLink(variant *domain.Variant) string {
	if len(variant.Genes) == 0 || variant.Genes[0].HgncSymbol == "" {
		return ""
	}
	return "https://civicdb.org/links/entrez_name/" + url.PathEscape(variant.Genes[0].HgncSymbol)
}
