// Package growth holds the crop growth-model catalog and its lookup rules.
package growth

import (
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"cropcal/entities"
)

// VarietyOverride is merged onto a crop base model. Nil pointers and empty
// collections leave the base untouched.
type VarietyOverride struct {
	MaturityDays         *int                                 `yaml:"maturity_days,omitempty"`
	HarvestToleranceDays *int                                 `yaml:"harvest_tolerance_days,omitempty"`
	Stages               []entities.GrowthStage               `yaml:"stages,omitempty"`
	Practices            map[string]entities.CriticalPractice `yaml:"practices,omitempty"`
	RemovePractices      []string                             `yaml:"remove_practices,omitempty"`
}

type CropEntry struct {
	Base      entities.GrowthModel
	Varieties map[string]VarietyOverride
}

// Catalog is keyed by normalized crop name.
type Catalog map[string]CropEntry

// Merge applies an override to a base model without touching either input.
func Merge(base entities.GrowthModel, variety string, o VarietyOverride) entities.GrowthModel {
	out := base.Clone()
	out.Variety = variety
	if o.MaturityDays != nil {
		out.MaturityDays = *o.MaturityDays
	}
	if o.HarvestToleranceDays != nil {
		out.HarvestToleranceDays = *o.HarvestToleranceDays
	}
	if len(o.Stages) > 0 {
		out.Stages = append([]entities.GrowthStage(nil), o.Stages...)
	}
	for _, k := range o.RemovePractices {
		delete(out.CriticalPractices, normalize(k))
	}
	for k, p := range o.Practices {
		p.LocalMethods = append([]string(nil), p.LocalMethods...)
		p.CommercialMethods = append([]string(nil), p.CommercialMethods...)
		out.CriticalPractices[normalize(k)] = p
	}
	return out
}

type Registry struct {
	mu    sync.RWMutex
	crops Catalog
	log   *zap.Logger
}

func NewRegistry(c Catalog, log *zap.Logger) *Registry {
	if log == nil {
		log = zap.NewNop()
	}
	r := &Registry{crops: Catalog{}, log: log}
	for k, e := range c {
		r.crops[normalize(k)] = e
	}
	return r
}

// Default returns a registry over the built-in catalog.
func Default(log *zap.Logger) *Registry { return NewRegistry(BuiltinCatalog(), log) }

// Lookup resolves a crop/variety pair. Unknown varieties fall back to the
// crop base model with DegradedPrecision set.
func (r *Registry) Lookup(crop, variety string) (entities.GrowthModel, error) {
	ck, vk := normalize(crop), normalize(variety)
	r.mu.RLock()
	entry, ok := r.crops[ck]
	var o VarietyOverride
	var hasVariety bool
	if ok && vk != "" {
		o, hasVariety = entry.Varieties[vk]
	}
	r.mu.RUnlock()

	if !ok {
		return entities.GrowthModel{}, &entities.NotFoundError{Kind: "crop", Key: crop}
	}
	if vk == "" {
		return entry.Base.Clone(), nil
	}
	if !hasVariety {
		r.log.Debug("variety not in catalog, using crop base model",
			zap.String("crop", ck), zap.String("variety", vk))
		m := entry.Base.Clone()
		m.Variety = vk
		m.DegradedPrecision = true
		return m, nil
	}
	return Merge(entry.Base, vk, o), nil
}

// Crops lists catalog crops and their varieties, sorted.
func (r *Registry) Crops() map[string][]string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string][]string, len(r.crops))
	for k, e := range r.crops {
		vs := make([]string, 0, len(e.Varieties))
		for v := range e.Varieties {
			vs = append(vs, v)
		}
		sort.Strings(vs)
		out[k] = vs
	}
	return out
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.crops)
}

// PutCrop replaces a crop base model, keeping its known varieties.
func (r *Registry) PutCrop(base entities.GrowthModel) {
	k := normalize(base.Crop)
	base.Crop = k
	base.Variety = ""
	if base.CriticalPractices == nil {
		base.CriticalPractices = map[string]entities.CriticalPractice{}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	e := r.crops[k]
	e.Base = base
	if e.Varieties == nil {
		e.Varieties = map[string]VarietyOverride{}
	}
	r.crops[k] = e
}

// PutVariety registers or replaces a variety override on an existing crop.
func (r *Registry) PutVariety(crop, variety string, o VarietyOverride) error {
	ck := normalize(crop)
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.crops[ck]
	if !ok {
		return &entities.NotFoundError{Kind: "crop", Key: crop}
	}
	if e.Varieties == nil {
		e.Varieties = map[string]VarietyOverride{}
	}
	e.Varieties[normalize(variety)] = o
	r.crops[ck] = e
	return nil
}

// PatchPractice sets one practice on the crop base (empty variety) or on a
// variety override, creating the override when needed.
func (r *Registry) PatchPractice(crop, variety, key string, p entities.CriticalPractice) error {
	ck, vk, pk := normalize(crop), normalize(variety), normalize(key)
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.crops[ck]
	if !ok {
		return &entities.NotFoundError{Kind: "crop", Key: crop}
	}
	if vk == "" {
		base := e.Base.Clone()
		base.CriticalPractices[pk] = p
		e.Base = base
		r.crops[ck] = e
		return nil
	}
	if e.Varieties == nil {
		e.Varieties = map[string]VarietyOverride{}
	}
	o := e.Varieties[vk]
	practices := make(map[string]entities.CriticalPractice, len(o.Practices)+1)
	for k, v := range o.Practices {
		practices[k] = v
	}
	practices[pk] = p
	o.Practices = practices
	e.Varieties[vk] = o
	r.crops[ck] = e
	return nil
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
