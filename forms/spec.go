// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package forms

import (
	"github.com/krle1978/health-predictor-ai/models"
)

// Kind is the declared type of a form field
type Kind int

const (
	KindNumber Kind = iota
	KindEnum
	KindFile
)

func (k Kind) String() string {
	switch k {
	case KindEnum:
		return "enum"
	case KindFile:
		return "file"
	default:
		return "number"
	}
}

// Policy decides whether bad input blocks submission locally
type Policy int

const (
	// PolicyStrict rejects missing or malformed fields before dispatch
	PolicyStrict Policy = iota
	// PolicyPermissive forwards whatever was typed for the backend to judge
	PolicyPermissive
)

func (p Policy) String() string {
	if p == PolicyPermissive {
		return "permissive"
	}
	return "strict"
}

type Option struct {
	Value string
	Label string
}

// Field describes one input of a domain form
type Field struct {
	Name     string
	Label    string
	Kind     Kind
	Required bool
	Options  []Option
}

// Derivation computes a payload value from other fields.
// A zero result means "not yet computed".
type Derivation struct {
	Name    string
	Label   string
	Compute func(get func(name string) Number) float64
}

// Spec is the static description of one domain form
type Spec struct {
	Domain  models.Domain
	Title   string
	Policy  Policy
	Fields  []Field
	Derived []Derivation
	// Payload lists sent names in wire order, drawn from Fields and Derived
	Payload []string
}

// Field returns the input field called name
func (s *Spec) Field(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

func (s *Spec) derivation(name string) (Derivation, bool) {
	for _, d := range s.Derived {
		if d.Name == name {
			return d, true
		}
	}
	return Derivation{}, false
}

// Sent reports whether name is part of the backend payload
func (s *Spec) Sent(name string) bool {
	for _, p := range s.Payload {
		if p == name {
			return true
		}
	}
	return false
}

// Encoding is multipart when the form carries a file field
func (s *Spec) Encoding() models.Encoding {
	for _, f := range s.Fields {
		if f.Kind == KindFile {
			return models.EncodingMultipart
		}
	}
	return models.EncodingJSON
}

// Info converts the spec to its API representation
func (s *Spec) Info() models.DomainInfo {
	info := models.DomainInfo{
		Domain:   s.Domain,
		Title:    s.Title,
		Policy:   s.Policy.String(),
		Encoding: s.Encoding().String(),
		Fields:   make([]models.FieldInfo, 0, len(s.Fields)),
	}
	for _, f := range s.Fields {
		fi := models.FieldInfo{
			Name:     f.Name,
			Label:    f.Label,
			Kind:     f.Kind.String(),
			Required: f.Required,
			Sent:     s.Sent(f.Name),
		}
		for _, o := range f.Options {
			fi.Options = append(fi.Options, models.OptionInfo{Value: o.Value, Label: o.Label})
		}
		info.Fields = append(info.Fields, fi)
	}
	return info
}

var yesNo = []Option{{"0", "No"}, {"1", "Yes"}}

var HeartSpec = &Spec{
	Domain: models.DomainHeart,
	Title:  "Heart Disease Prediction",
	Policy: PolicyStrict,
	Fields: []Field{
		{Name: "age", Label: "Age", Kind: KindNumber, Required: true},
		{Name: "sex", Label: "Sex", Kind: KindEnum, Required: true,
			Options: []Option{{"1", "Male"}, {"0", "Female"}}},
		{Name: "cp", Label: "Chest Pain Type", Kind: KindEnum, Required: true,
			Options: []Option{{"0", "Typical Angina"}, {"1", "Atypical Angina"}, {"2", "Non-Anginal Pain"}, {"3", "Asymptomatic"}}},
		{Name: "thalach", Label: "Max Heart Rate", Kind: KindNumber, Required: true},
		{Name: "ca", Label: "Major Vessels (0-3)", Kind: KindNumber, Required: true},
		{Name: "oldpeak", Label: "ST Depression (Oldpeak)", Kind: KindNumber, Required: true},
		{Name: "thal", Label: "Thalassemia Test", Kind: KindEnum, Required: true,
			Options: []Option{{"1", "Normal"}, {"2", "Fixed Defect"}, {"3", "Reversible Defect"}}},
		{Name: "slope", Label: "Slope", Kind: KindEnum, Required: true,
			Options: []Option{{"0", "Upsloping"}, {"1", "Flat"}, {"2", "Downsloping"}}},
	},
	Payload: []string{"age", "sex", "cp", "thalach", "ca", "oldpeak", "thal", "slope"},
}

var DiabetesSpec = &Spec{
	Domain: models.DomainDiabetes,
	Title:  "Diabetes Prediction",
	Policy: PolicyPermissive,
	Fields: []Field{
		{Name: "HighChol", Label: "High Cholesterol", Kind: KindEnum, Required: true, Options: yesNo},
		{Name: "Smoker", Label: "Smoker", Kind: KindEnum, Required: true, Options: yesNo},
		{Name: "HeartDiseaseorAttack", Label: "Heart Disease or Attack", Kind: KindEnum, Required: true, Options: yesNo},
		{Name: "Height", Label: "Height (cm)", Kind: KindNumber, Required: true},
		{Name: "Weight", Label: "Weight (kg)", Kind: KindNumber, Required: true},
		{Name: "PhysActivity", Label: "Physical Activity", Kind: KindEnum, Required: true, Options: yesNo},
		{Name: "GenHlth", Label: "General Health", Kind: KindEnum, Required: true,
			Options: []Option{{"1", "Excellent"}, {"2", "Very Good"}, {"3", "Good"}, {"4", "Fair"}, {"5", "Poor"}}},
		{Name: "PhysHlth", Label: "Physical Health (0-30 days)", Kind: KindNumber, Required: true},
		{Name: "DiffWalk", Label: "Difficulty Walking", Kind: KindEnum, Required: true, Options: yesNo},
		{Name: "Age", Label: "Age", Kind: KindNumber, Required: true},
	},
	Derived: []Derivation{
		{Name: "BMI", Label: "BMI", Compute: func(get func(string) Number) float64 {
			return BMI(get("Height").Value, get("Weight").Value)
		}},
	},
	Payload: []string{"HighChol", "BMI", "Smoker", "HeartDiseaseorAttack", "PhysActivity", "GenHlth", "PhysHlth", "DiffWalk", "Age"},
}

var StrokeSpec = &Spec{
	Domain: models.DomainStroke,
	Title:  "Stroke Prediction",
	Policy: PolicyPermissive,
	Fields: []Field{
		{Name: "Age", Label: "Age", Kind: KindNumber, Required: true},
		{Name: "Hypertension", Label: "Hypertension", Kind: KindEnum, Required: true, Options: yesNo},
		{Name: "HeartDisease", Label: "Heart Disease", Kind: KindEnum, Required: true, Options: yesNo},
		{Name: "AvgGlucoseLevel", Label: "Avg Glucose Level", Kind: KindNumber, Required: true},
		{Name: "BMI", Label: "BMI", Kind: KindNumber, Required: true},
	},
	Payload: []string{"Age", "Hypertension", "HeartDisease", "AvgGlucoseLevel", "BMI"},
}

// ImageField is the multipart field carrying the melanoma photo
const ImageField = "image"

var MelanomaSpec = &Spec{
	Domain: models.DomainMelanoma,
	Title:  "Melanoma Prediction",
	Policy: PolicyStrict,
	Fields: []Field{
		{Name: ImageField, Label: "Skin mole photo", Kind: KindFile, Required: true},
	},
	Payload: []string{ImageField},
}

// Specs returns every domain spec in selector order
func Specs() []*Spec {
	return []*Spec{HeartSpec, DiabetesSpec, StrokeSpec, MelanomaSpec}
}

// Lookup returns the spec for a domain
func Lookup(d models.Domain) (*Spec, bool) {
	for _, s := range Specs() {
		if s.Domain == d {
			return s, true
		}
	}
	return nil, false
}
