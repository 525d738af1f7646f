package domain

import "strings"

// BloodType is an ABO group with its Rh factor, e.g. "AB-".
type BloodType string

const (
	BloodTypeAPos  BloodType = "A+"
	BloodTypeANeg  BloodType = "A-"
	BloodTypeBPos  BloodType = "B+"
	BloodTypeBNeg  BloodType = "B-"
	BloodTypeABPos BloodType = "AB+"
	BloodTypeABNeg BloodType = "AB-"
	BloodTypeOPos  BloodType = "O+"
	BloodTypeONeg  BloodType = "O-"
)

// BloodTypes lists every accepted blood type in display order.
var BloodTypes = []BloodType{
	BloodTypeAPos, BloodTypeANeg,
	BloodTypeBPos, BloodTypeBNeg,
	BloodTypeABPos, BloodTypeABNeg,
	BloodTypeOPos, BloodTypeONeg,
}

// ParseBloodType normalizes user input ("ab+", " O- ") into a BloodType.
func ParseBloodType(raw string) (BloodType, bool) {
	candidate := BloodType(strings.ToUpper(strings.TrimSpace(raw)))
	for _, bt := range BloodTypes {
		if bt == candidate {
			return bt, true
		}
	}
	return "", false
}

// Registration uses separate ABO group and Rh answers.
var (
	BloodGroups = []string{"A", "B", "O", "AB"}
	RHFactors   = []string{"+ve", "-ve"}
)

// ChronicDiseaseNone is the explicit "no chronic disease" answer.
const ChronicDiseaseNone = "None"

// ChronicDiseases lists the selectable conditions on the medical form.
var ChronicDiseases = []string{
	"Diabetes",
	"Hypertension",
	"Asthma",
	"Heart Disease",
	"Chronic Kidney Disease",
	"COPD",
	ChronicDiseaseNone,
}

// CombineBloodType joins a registration group and Rh factor into a BloodType.
func CombineBloodType(group, rh string) (BloodType, bool) {
	sign := ""
	switch strings.TrimSpace(rh) {
	case "+ve":
		sign = "+"
	case "-ve":
		sign = "-"
	default:
		return "", false
	}
	return ParseBloodType(strings.TrimSpace(group) + sign)
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
