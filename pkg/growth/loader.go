package growth

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"cropcal/entities"
)

type yamlCatalog struct {
	Crops []yamlCrop `yaml:"crops"`
}

type yamlCrop struct {
	entities.GrowthModel `yaml:",inline"`
	Varieties            map[string]VarietyOverride `yaml:"varieties,omitempty"`
}

// LoadYAML merges a YAML catalog file into the registry. Crops in the file
// replace same-named base models; varieties are added or replaced.
func (r *Registry) LoadYAML(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var doc yamlCatalog
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	for i, c := range doc.Crops {
		if strings.TrimSpace(c.Crop) == "" {
			return fmt.Errorf("%s: crops[%d] has no crop name", path, i)
		}
		if c.MaturityDays <= 0 {
			return fmt.Errorf("%s: crop %q needs maturity_days > 0", path, c.Crop)
		}
		base := c.GrowthModel
		practices := make(map[string]entities.CriticalPractice, len(base.CriticalPractices))
		for k, p := range base.CriticalPractices {
			practices[normalize(k)] = p
		}
		base.CriticalPractices = practices
		r.PutCrop(base)
		for v, o := range c.Varieties {
			if err := r.PutVariety(c.Crop, v, o); err != nil {
				return err
			}
		}
	}
	r.log.Info("growth catalog loaded", zap.String("path", path), zap.Int("crops", len(doc.Crops)))
	return nil
}

// LoadPracticesCSV patches practices from a CSV table.
func (r *Registry) LoadPracticesCSV(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	cr := csv.NewReader(f)
	cr.FieldsPerRecord = -1
	var rows [][]string
	for {
		rec, err := cr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return err
		}
		rows = append(rows, rec)
	}
	return r.applyPracticeRows(path, rows)
}

// LoadPracticesXLSX patches practices from the first sheet of a workbook,
// using the same columns as the CSV table.
func (r *Registry) LoadPracticesXLSX(path string) error {
	x, err := excelize.OpenFile(path)
	if err != nil {
		return err
	}
	defer x.Close()

	sheets := x.GetSheetList()
	if len(sheets) == 0 {
		return fmt.Errorf("%s: workbook has no sheets", path)
	}
	rows, err := x.GetRows(sheets[0])
	if err != nil {
		return err
	}
	return r.applyPracticeRows(path, rows)
}

func (r *Registry) applyPracticeRows(src string, rows [][]string) error {
	if len(rows) == 0 {
		return fmt.Errorf("%s: empty practice table", src)
	}
	head := rows[0]

	norm := func(s string) string {
		s = strings.TrimSpace(s)
		s = strings.TrimPrefix(s, "\uFEFF")
		s = strings.ToLower(s)
		s = strings.ReplaceAll(s, " ", "")
		s = strings.ReplaceAll(s, "-", "")
		s = strings.ReplaceAll(s, "_", "")
		return s
	}
	hmap := map[string]int{}
	for i, h := range head {
		hmap[norm(h)] = i
	}
	findAny := func(keys ...string) int {
		for _, k := range keys {
			if idx, ok := hmap[norm(k)]; ok {
				return idx
			}
		}
		return -1
	}

	cCrop := findAny("crop", "crop_name")
	cVar := findAny("variety", "cultivar")
	cKey := findAny("practice", "practice_key", "key")
	cDay := findAny("day_offset", "dap", "days_after_planting", "day")
	cHours := findAny("labor_hours", "labour_hours", "hours")
	cPrio := findAny("priority")
	cCat := findAny("category", "type")
	cLocal := findAny("local_methods", "local")
	cComm := findAny("commercial_methods", "commercial")
	cDesc := findAny("description", "notes")

	if cCrop == -1 || cKey == -1 || cDay == -1 {
		return fmt.Errorf("%s missing required columns. Found headers: %v\nNeed at least: crop, practice, day_offset", src, head)
	}

	applied := 0
	for n, rec := range rows[1:] {
		get := func(idx int) string {
			if idx < 0 || idx >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[idx])
		}
		crop, key := get(cCrop), get(cKey)
		if crop == "" || key == "" {
			continue
		}
		day, err := strconv.Atoi(get(cDay))
		if err != nil || day < 0 {
			return fmt.Errorf("%s row %d: bad day_offset %q", src, n+2, get(cDay))
		}
		hours, _ := strconv.ParseFloat(get(cHours), 64)
		prio := entities.Priority(strings.ToLower(get(cPrio)))
		if prio == "" {
			prio = entities.PriorityModerate
		}
		p := entities.CriticalPractice{
			DayOffset:          day,
			LaborHoursEstimate: hours,
			Priority:           prio,
			Category:           entities.PracticeCategory(strings.ToLower(get(cCat))),
			LocalMethods:       splitList(get(cLocal)),
			CommercialMethods:  splitList(get(cComm)),
			Description:        get(cDesc),
		}
		if err := r.PatchPractice(crop, get(cVar), key, p); err != nil {
			return fmt.Errorf("%s row %d: %w", src, n+2, err)
		}
		applied++
	}
	r.log.Info("practice table applied", zap.String("path", src), zap.Int("rows", applied))
	return nil
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ";") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
