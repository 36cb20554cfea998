package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/scout-genomics/scout/internal/domain"
)

// MemStore is an in-memory Store used by tests and the CLI demo path. All
// methods deep-copy documents on the way in and out, so callers can never
// mutate stored state without going through an update.
type MemStore struct {
	mu sync.RWMutex

	variants      map[string]*domain.Variant
	omicsVariants map[string]*domain.Variant
	cases         map[string]*domain.Case
	events        map[string]*domain.Event
	evaluations   map[string]map[string]*domain.Evaluation // scheme -> id -> doc
	filters       map[string]*domain.Filter
	genes         map[string][]*domain.HGNCGene // build -> genes
	panels        []*domain.GenePanel
	hpoTerms      map[string]*domain.HPOTerm
	diseaseTerms  map[string]*domain.DiseaseTerm
	transcripts   map[string][]*domain.RefTranscript // build -> transcripts
	exons         map[string][]*domain.Exon
	managed       map[string]*domain.ManagedVariant
	institutes    map[string]*domain.Institute
	users         map[string]*domain.User
}

// NewMemStore returns an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{
		variants:      map[string]*domain.Variant{},
		omicsVariants: map[string]*domain.Variant{},
		cases:         map[string]*domain.Case{},
		events:        map[string]*domain.Event{},
		evaluations:   map[string]map[string]*domain.Evaluation{},
		filters:       map[string]*domain.Filter{},
		genes:         map[string][]*domain.HGNCGene{},
		hpoTerms:      map[string]*domain.HPOTerm{},
		diseaseTerms:  map[string]*domain.DiseaseTerm{},
		transcripts:   map[string][]*domain.RefTranscript{},
		exons:         map[string][]*domain.Exon{},
		managed:       map[string]*domain.ManagedVariant{},
		institutes:    map[string]*domain.Institute{},
		users:         map[string]*domain.User{},
	}
}

func clone[T any](src *T) *T {
	if src == nil {
		return nil
	}
	raw, err := json.Marshal(src)
	if err != nil {
		panic(fmt.Sprintf("memstore clone: %v", err))
	}
	dst := new(T)
	if err := json.Unmarshal(raw, dst); err != nil {
		panic(fmt.Sprintf("memstore clone: %v", err))
	}
	return dst
}

func (m *MemStore) Variants() VariantStore               { return &memVariants{m: m, docs: m.variants} }
func (m *MemStore) OmicsVariants() VariantStore          { return &memVariants{m: m, docs: m.omicsVariants} }
func (m *MemStore) Cases() CaseStore                     { return (*memCases)(m) }
func (m *MemStore) Events() EventStore                   { return (*memEvents)(m) }
func (m *MemStore) Evaluations() EvaluationStore         { return (*memEvaluations)(m) }
func (m *MemStore) Filters() FilterStore                 { return (*memFilters)(m) }
func (m *MemStore) Genes() GeneStore                     { return (*memGenes)(m) }
func (m *MemStore) Panels() PanelStore                   { return (*memPanels)(m) }
func (m *MemStore) Terms() TermStore                     { return (*memTerms)(m) }
func (m *MemStore) Transcripts() TranscriptStore         { return (*memTranscripts)(m) }
func (m *MemStore) ManagedVariants() ManagedVariantStore { return (*memManaged)(m) }
func (m *MemStore) Institutes() InstituteStore           { return (*memInstitutes)(m) }
func (m *MemStore) Users() UserStore                     { return (*memUsers)(m) }

type memVariants struct {
	m    *MemStore
	docs map[string]*domain.Variant
}

func (s *memVariants) VariantByDocID(_ context.Context, docID string) (*domain.Variant, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()
	return clone(s.docs[docID]), nil
}

func (s *memVariants) VariantByID(_ context.Context, caseID, variantID string, typ domain.VariantType) (*domain.Variant, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()
	for _, v := range s.docs {
		if v.CaseID == caseID && v.VariantID == variantID && (typ == "" || v.VariantType == typ) {
			return clone(v), nil
		}
	}
	return nil, nil
}

func (s *memVariants) VariantsBySimpleID(_ context.Context, simpleID string, typ domain.VariantType) ([]*domain.Variant, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()
	var out []*domain.Variant
	for _, v := range s.docs {
		if v.SimpleID == simpleID && (typ == "" || v.VariantType == typ) {
			out = append(out, clone(v))
		}
	}
	sortVariants(out)
	return out, nil
}

func (s *memVariants) Select(_ context.Context, sel VariantSelection) ([]*domain.Variant, error) {
	s.m.mu.RLock()
	var matched []*domain.Variant
	for _, v := range s.docs {
		if matchSelection(v, sel) {
			matched = append(matched, clone(v))
		}
	}
	s.m.mu.RUnlock()

	if sel.SortRankScoreDesc {
		sort.SliceStable(matched, func(i, j int) bool {
			if matched[i].RankScore != matched[j].RankScore {
				return matched[i].RankScore > matched[j].RankScore
			}
			return matched[i].ID < matched[j].ID
		})
	} else {
		sortVariants(matched)
	}
	if sel.Skip > 0 {
		if sel.Skip >= len(matched) {
			return nil, nil
		}
		matched = matched[sel.Skip:]
	}
	if sel.Limit > 0 && len(matched) > sel.Limit {
		matched = matched[:sel.Limit]
	}
	return matched, nil
}

func matchSelection(v *domain.Variant, sel VariantSelection) bool {
	if sel.CaseID != "" && v.CaseID != sel.CaseID {
		return false
	}
	if sel.Category != "" && v.Category != sel.Category {
		return false
	}
	if sel.VariantType != "" && v.VariantType != sel.VariantType {
		return false
	}
	if sel.SimpleID != "" && v.SimpleID != sel.SimpleID {
		return false
	}
	// A breakend may finish on the selected chromosome; either side matches.
	if sel.Chromosome != "" && v.Chromosome != sel.Chromosome && v.EndChrom != sel.Chromosome {
		return false
	}
	if sel.MinRankScore != nil && v.RankScore < *sel.MinRankScore {
		return false
	}
	if sel.OnlyAssessed && !v.HasAssessment() {
		return false
	}
	if len(sel.VariantIDs) > 0 {
		found := false
		for _, id := range sel.VariantIDs {
			if v.VariantID == id {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if len(sel.HgncIDs) > 0 {
		found := false
		for _, want := range sel.HgncIDs {
			for _, got := range v.HgncIDs {
				if want == got {
					found = true
					break
				}
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func sortVariants(vs []*domain.Variant) {
	sort.SliceStable(vs, func(i, j int) bool { return vs[i].ID < vs[j].ID })
}

func (s *memVariants) InsertVariant(_ context.Context, v *domain.Variant) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	s.docs[v.ID] = clone(v)
	return nil
}

func (s *memVariants) UpdateVariant(_ context.Context, v *domain.Variant) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if _, ok := s.docs[v.ID]; !ok {
		return fmt.Errorf("update variant %s: %w", v.ID, domain.ErrNotFound)
	}
	s.docs[v.ID] = clone(v)
	return nil
}

func (s *memVariants) DeleteVariants(_ context.Context, caseID string, keepDocIDs []string, keepAboveRank *float64) (int, error) {
	keep := make(map[string]struct{}, len(keepDocIDs))
	for _, id := range keepDocIDs {
		keep[id] = struct{}{}
	}
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	deleted := 0
	for id, v := range s.docs {
		if v.CaseID != caseID {
			continue
		}
		if _, ok := keep[id]; ok {
			continue
		}
		if keepAboveRank != nil && v.RankScore >= *keepAboveRank {
			continue
		}
		delete(s.docs, id)
		deleted++
	}
	return deleted, nil
}

type memCases MemStore

func (s *memCases) Case(_ context.Context, caseID string) (*domain.Case, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clone(s.cases[caseID]), nil
}

func (s *memCases) Cases(_ context.Context, sel CaseSelection) ([]*domain.Case, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*domain.Case
	for _, c := range s.cases {
		if sel.Institute != "" && !c.HasCollaborator(sel.Institute) {
			continue
		}
		if sel.Status != "" && c.Status != sel.Status {
			continue
		}
		if sel.OlderThan != nil && !c.AnalysisDate.Before(*sel.OlderThan) {
			continue
		}
		if sel.AnalysisType != "" && !caseHasAnalysisType(c, sel.AnalysisType) {
			continue
		}
		if sel.GroupID != "" && !caseInGroup(c, sel.GroupID) {
			continue
		}
		out = append(out, clone(c))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func caseHasAnalysisType(c *domain.Case, analysisType string) bool {
	for _, ind := range c.Individuals {
		if ind.AnalysisType == analysisType {
			return true
		}
	}
	return false
}

func caseInGroup(c *domain.Case, groupID string) bool {
	for _, g := range c.GroupIDs {
		if g == groupID {
			return true
		}
	}
	return false
}

func (s *memCases) InsertCase(_ context.Context, c *domain.Case) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.cases[c.ID]; ok {
		return fmt.Errorf("case %s already exists: %w", c.ID, domain.ErrConflict)
	}
	s.cases[c.ID] = clone(c)
	return nil
}

func (s *memCases) UpdateCase(_ context.Context, c *domain.Case) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.cases[c.ID]; !ok {
		return fmt.Errorf("update case %s: %w", c.ID, domain.ErrNotFound)
	}
	s.cases[c.ID] = clone(c)
	return nil
}

func (s *memCases) DeleteCase(_ context.Context, caseID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.cases, caseID)
	return nil
}

type memEvents MemStore

func (s *memEvents) InsertEvent(_ context.Context, e *domain.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	s.events[e.ID] = clone(e)
	return nil
}

func (s *memEvents) Events(_ context.Context, caseID, category, variantID string) ([]*domain.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*domain.Event
	for _, e := range s.events {
		if caseID != "" && e.CaseID != caseID {
			continue
		}
		if category != "" && e.Category != category {
			continue
		}
		if variantID != "" && e.VariantID != variantID {
			continue
		}
		out = append(out, clone(e))
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (s *memEvents) Event(_ context.Context, eventID string) (*domain.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clone(s.events[eventID]), nil
}

func (s *memEvents) UpdateEventContent(_ context.Context, eventID, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.events[eventID]
	if !ok {
		return fmt.Errorf("update event %s: %w", eventID, domain.ErrNotFound)
	}
	e.Content = content
	e.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *memEvents) DeleteEvent(_ context.Context, eventID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.events, eventID)
	return nil
}

type memEvaluations MemStore

func (s *memEvaluations) InsertEvaluation(_ context.Context, scheme string, ev *domain.Evaluation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	if s.evaluations[scheme] == nil {
		s.evaluations[scheme] = map[string]*domain.Evaluation{}
	}
	s.evaluations[scheme][ev.ID] = clone(ev)
	return nil
}

func (s *memEvaluations) Evaluations(_ context.Context, scheme, caseID, variantID string) ([]*domain.Evaluation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*domain.Evaluation
	for _, ev := range s.evaluations[scheme] {
		if caseID != "" && ev.CaseID != caseID {
			continue
		}
		if variantID != "" && ev.VariantID != variantID {
			continue
		}
		out = append(out, clone(ev))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *memEvaluations) Evaluation(_ context.Context, scheme, evaluationID string) (*domain.Evaluation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clone(s.evaluations[scheme][evaluationID]), nil
}

func (s *memEvaluations) DeleteEvaluation(_ context.Context, scheme, evaluationID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.evaluations[scheme], evaluationID)
	return nil
}

type memFilters MemStore

func (s *memFilters) InsertFilter(_ context.Context, f *domain.Filter) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	s.filters[f.ID] = clone(f)
	return nil
}

func (s *memFilters) Filter(_ context.Context, filterID string) (*domain.Filter, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clone(s.filters[filterID]), nil
}

func (s *memFilters) Filters(_ context.Context, institute string, category domain.Category) ([]*domain.Filter, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*domain.Filter
	for _, f := range s.filters {
		if institute != "" && f.Institute != institute {
			continue
		}
		if category != "" && f.Category != category {
			continue
		}
		out = append(out, clone(f))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DisplayName < out[j].DisplayName })
	return out, nil
}

func (s *memFilters) UpdateFilter(_ context.Context, f *domain.Filter) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.filters[f.ID]; !ok {
		return fmt.Errorf("update filter %s: %w", f.ID, domain.ErrNotFound)
	}
	s.filters[f.ID] = clone(f)
	return nil
}

func (s *memFilters) DeleteFilter(_ context.Context, filterID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.filters, filterID)
	return nil
}

type memGenes MemStore

func (s *memGenes) GeneByHgncID(_ context.Context, hgncID int, build string) (*domain.HGNCGene, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, g := range s.genes[domain.NormalizeBuild(build)] {
		if g.HgncID == hgncID {
			return clone(g), nil
		}
	}
	return nil, nil
}

func (s *memGenes) GenesBySymbol(_ context.Context, symbol, build string) ([]*domain.HGNCGene, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*domain.HGNCGene
	for _, g := range s.genes[domain.NormalizeBuild(build)] {
		if strings.EqualFold(g.Symbol, symbol) {
			out = append(out, clone(g))
		}
	}
	return out, nil
}

func (s *memGenes) GenesByAlias(_ context.Context, symbol, build string) ([]*domain.HGNCGene, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*domain.HGNCGene
	for _, g := range s.genes[domain.NormalizeBuild(build)] {
		for _, alias := range g.Aliases {
			if strings.EqualFold(alias, symbol) {
				out = append(out, clone(g))
				break
			}
		}
	}
	return out, nil
}

func (s *memGenes) InsertGene(_ context.Context, g *domain.HGNCGene) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	build := domain.NormalizeBuild(g.Build)
	s.genes[build] = append(s.genes[build], clone(g))
	return nil
}

type memPanels MemStore

func (s *memPanels) Panel(_ context.Context, name string, version *float64) (*domain.GenePanel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var best *domain.GenePanel
	for _, p := range s.panels {
		if p.Name != name {
			continue
		}
		if version != nil {
			if p.Version == *version {
				return clone(p), nil
			}
			continue
		}
		if p.IsArchived {
			continue
		}
		if best == nil || p.Version > best.Version {
			best = p
		}
	}
	return clone(best), nil
}

func (s *memPanels) Panels(_ context.Context, institute string) ([]*domain.GenePanel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*domain.GenePanel
	for _, p := range s.panels {
		if institute != "" && p.Institute != institute {
			continue
		}
		out = append(out, clone(p))
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].Version > out[j].Version
	})
	return out, nil
}

func (s *memPanels) InsertPanel(_ context.Context, p *domain.GenePanel) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	s.panels = append(s.panels, clone(p))
	return nil
}

type memTerms MemStore

func (s *memTerms) HPOTerm(_ context.Context, hpoID string) (*domain.HPOTerm, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clone(s.hpoTerms[hpoID]), nil
}

func (s *memTerms) DiseaseTerm(_ context.Context, diseaseID string) (*domain.DiseaseTerm, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clone(s.diseaseTerms[diseaseID]), nil
}

func (s *memTerms) InsertHPOTerm(_ context.Context, t *domain.HPOTerm) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hpoTerms[t.HpoID] = clone(t)
	return nil
}

func (s *memTerms) InsertDiseaseTerm(_ context.Context, t *domain.DiseaseTerm) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.diseaseTerms[t.ID] = clone(t)
	return nil
}

type memTranscripts MemStore

func (s *memTranscripts) TranscriptsByGene(_ context.Context, hgncID int, build string) ([]*domain.RefTranscript, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*domain.RefTranscript
	for _, t := range s.transcripts[domain.NormalizeBuild(build)] {
		if t.HgncID == hgncID {
			out = append(out, clone(t))
		}
	}
	return out, nil
}

func (s *memTranscripts) ExonsByGene(_ context.Context, hgncID int, build string) ([]*domain.Exon, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*domain.Exon
	for _, e := range s.exons[domain.NormalizeBuild(build)] {
		if e.HgncID == hgncID {
			out = append(out, clone(e))
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Rank < out[j].Rank })
	return out, nil
}

func (s *memTranscripts) InsertTranscript(_ context.Context, t *domain.RefTranscript) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	build := domain.NormalizeBuild(t.Build)
	s.transcripts[build] = append(s.transcripts[build], clone(t))
	return nil
}

func (s *memTranscripts) InsertExon(_ context.Context, e *domain.Exon) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	build := domain.NormalizeBuild(e.Build)
	s.exons[build] = append(s.exons[build], clone(e))
	return nil
}

type memManaged MemStore

func (s *memManaged) InsertManagedVariant(_ context.Context, m *domain.ManagedVariant) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := m.Key()
	if _, ok := s.managed[key]; ok {
		return fmt.Errorf("managed variant %s already exists: %w", key, domain.ErrConflict)
	}
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	s.managed[key] = clone(m)
	return nil
}

func (s *memManaged) ManagedVariant(_ context.Context, chrom string, pos int, ref, alt, build string) (*domain.ManagedVariant, error) {
	probe := domain.ManagedVariant{Chromosome: chrom, Position: pos, Reference: ref, Alternative: alt, Build: build}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clone(s.managed[probe.Key()]), nil
}

func (s *memManaged) ManagedVariants(_ context.Context) ([]*domain.ManagedVariant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*domain.ManagedVariant, 0, len(s.managed))
	for _, m := range s.managed {
		out = append(out, clone(m))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Key() < out[j].Key() })
	return out, nil
}

func (s *memManaged) DeleteManagedVariant(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, m := range s.managed {
		if m.ID == id {
			delete(s.managed, key)
			return nil
		}
	}
	return fmt.Errorf("managed variant %s: %w", id, domain.ErrNotFound)
}

type memInstitutes MemStore

func (s *memInstitutes) Institute(_ context.Context, instituteID string) (*domain.Institute, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clone(s.institutes[instituteID]), nil
}

func (s *memInstitutes) Institutes(_ context.Context) ([]*domain.Institute, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*domain.Institute, 0, len(s.institutes))
	for _, i := range s.institutes {
		out = append(out, clone(i))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *memInstitutes) UpsertInstitute(_ context.Context, i *domain.Institute) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.institutes[i.ID] = clone(i)
	return nil
}

type memUsers MemStore

func (s *memUsers) User(_ context.Context, email string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clone(s.users[email]), nil
}

func (s *memUsers) Users(_ context.Context, institute string) ([]*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*domain.User
	for _, u := range s.users {
		if institute != "" && !u.MemberOf(institute) {
			continue
		}
		out = append(out, clone(u))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, nil
}

func (s *memUsers) UpsertUser(_ context.Context, u *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u.ID == "" {
		u.ID = u.Email
	}
	s.users[u.Email] = clone(u)
	return nil
}

func (s *memUsers) DeleteUser(_ context.Context, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.users, email)
	return nil
}
