package report

import (
	"sort"
	"strconv"
	"time"
)

const displayLayout = "02/01/2006 15:04"

// Row is a category-independent report line.
type Row struct {
	Category  string `json:"categoria"`
	Value     string `json:"valor"`
	Detail    string `json:"detalhe"`
	Timestamp string `json:"dataHora"`
}

// Record is one of Glucose, Insulin, Meal or Activity.
type Record interface {
	EventTime() time.Time
	Category() Category
	// Project renders the record with timestamps in loc.
	Project(loc *time.Location) Row

	sealed()
}

// Glucose is a glucose measurement in mg/dL.
type Glucose struct {
	Value      int
	Period     string
	MeasuredAt time.Time
}

// Insulin is an insulin dose. Type is BASAL or BOLUS.
type Insulin struct {
	Units     int
	Type      string
	AppliedAt time.Time
}

// Meal is a meal with its carbohydrate content.
type Meal struct {
	Carbs    float64
	MealType string
	EatenAt  time.Time
}

// Activity is a physical activity session.
type Activity struct {
	DurationMinutes int
	ActivityType    string
	PerformedAt     time.Time
}

func (Glucose) sealed()  {}
func (Insulin) sealed()  {}
func (Meal) sealed()     {}
func (Activity) sealed() {}

func (g Glucose) EventTime() time.Time  { return g.MeasuredAt }
func (i Insulin) EventTime() time.Time  { return i.AppliedAt }
func (m Meal) EventTime() time.Time     { return m.EatenAt }
func (a Activity) EventTime() time.Time { return a.PerformedAt }

func (Glucose) Category() Category  { return CategoryGlucose }
func (Insulin) Category() Category  { return CategoryInsulin }
func (Meal) Category() Category     { return CategoryFood }
func (Activity) Category() Category { return CategoryActivity }

func (g Glucose) Project(loc *time.Location) Row {
	return Row{
		Category:  CategoryGlucose.Label(),
		Value:     strconv.Itoa(g.Value) + " mg/dL",
		Detail:    g.Period,
		Timestamp: formatTime(g.MeasuredAt, loc),
	}
}

func (i Insulin) Project(loc *time.Location) Row {
	return Row{
		Category:  CategoryInsulin.Label(),
		Value:     strconv.Itoa(i.Units) + " U",
		Detail:    insulinTypeLabel(i.Type),
		Timestamp: formatTime(i.AppliedAt, loc),
	}
}

func (m Meal) Project(loc *time.Location) Row {
	return Row{
		Category:  CategoryFood.Label(),
		Value:     strconv.FormatFloat(m.Carbs, 'f', -1, 64) + " g carboidratos",
		Detail:    m.MealType,
		Timestamp: formatTime(m.EatenAt, loc),
	}
}

func (a Activity) Project(loc *time.Location) Row {
	return Row{
		Category:  CategoryActivity.Label(),
		Value:     strconv.Itoa(a.DurationMinutes) + " min",
		Detail:    a.ActivityType,
		Timestamp: formatTime(a.PerformedAt, loc),
	}
}

func insulinTypeLabel(t string) string {
	switch t {
	case "BASAL":
		return "Basal"
	case "BOLUS":
		return "Bolus"
	}
	return t
}

func formatTime(t time.Time, loc *time.Location) string {
	if loc != nil {
		t = t.In(loc)
	}
	return t.Format(displayLayout)
}

// Dataset holds already fetched records, one slice per category.
type Dataset struct {
	Glucose    []Glucose
	Insulin    []Insulin
	Meals      []Meal
	Activities []Activity
}

// Records returns the records of one category.
func (d Dataset) Records(c Category) []Record {
	var out []Record
	switch c {
	case CategoryGlucose:
		out = make([]Record, 0, len(d.Glucose))
		for _, r := range d.Glucose {
			out = append(out, r)
		}
	case CategoryInsulin:
		out = make([]Record, 0, len(d.Insulin))
		for _, r := range d.Insulin {
			out = append(out, r)
		}
	case CategoryFood:
		out = make([]Record, 0, len(d.Meals))
		for _, r := range d.Meals {
			out = append(out, r)
		}
	case CategoryActivity:
		out = make([]Record, 0, len(d.Activities))
		for _, r := range d.Activities {
			out = append(out, r)
		}
	}
	return out
}

// Rows projects the records of the selected categories that fall in rng.
// Rows are grouped by category in selection order, newest first in a group.
func Rows(data Dataset, rng Range, cats []Category) []Row {
	loc := rng.Location()
	rows := []Row{}
	for _, c := range cats {
		var in []Record
		for _, r := range data.Records(c) {
			if rng.Contains(r.EventTime()) {
				in = append(in, r)
			}
		}
		sort.SliceStable(in, func(i, j int) bool {
			return in[i].EventTime().After(in[j].EventTime())
		})
		for _, r := range in {
			rows = append(rows, r.Project(loc))
		}
	}
	return rows
}
