package models

// Gender is the stored single-letter gender code
type Gender string

const (
	GenderMale   Gender = "M"
	GenderFemale Gender = "F"
	GenderOther  Gender = "O"
)

// Choice is a stored value with its display label
type Choice struct {
	Value string
	Label string
}

// GenderChoices lists the accepted genders in display order
var GenderChoices = []Choice{
	{Value: string(GenderMale), Label: "Male"},
	{Value: string(GenderFemale), Label: "Female"},
	{Value: string(GenderOther), Label: "Other"},
}

// CourseChoices lists the ten program codes a student can be enrolled in
var CourseChoices = []Choice{
	{Value: "CE", Label: "Computer Engineering"},
	{Value: "IT", Label: "Information Technology"},
	{Value: "CSD", Label: "Computer Science and Design"},
	{Value: "AIML", Label: "Artificial Intelligence and Machine Learning"},
	{Value: "AIDS", Label: "Artificial Intelligence and Data Science"},
	{Value: "RAI", Label: "Robotics and AI"},
	{Value: "CSE", Label: "Computer Science and Engineering"},
	{Value: "CST", Label: "Computer Science and Technology"},
	{Value: "CSIT", Label: "Computer Science and Information Technology"},
	{Value: "CEA", Label: "Computer Engineering and Automation"},
}

// SemesterChoices lists semesters 1 through 8; they are stored as text
var SemesterChoices = []Choice{
	{Value: "1", Label: "Semester 1"},
	{Value: "2", Label: "Semester 2"},
	{Value: "3", Label: "Semester 3"},
	{Value: "4", Label: "Semester 4"},
	{Value: "5", Label: "Semester 5"},
	{Value: "6", Label: "Semester 6"},
	{Value: "7", Label: "Semester 7"},
	{Value: "8", Label: "Semester 8"},
}

// Label returns the display label of value, or value itself when it is not a known choice
func Label(choices []Choice, value string) string {
	for _, c := range choices {
		if c.Value == value {
			return c.Label
		}
	}
	return value
}
