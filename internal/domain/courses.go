package domain

// Course describes a certification track offered by the app.
type Course struct {
	ID                string       `json:"id"`
	Name              string       `json:"name"`
	CertificationCode string       `json:"certificationCode,omitempty"`
	Description       string       `json:"description"`
	Difficulty        string       `json:"difficulty"`
	QuestionCount     int          `json:"questionCount"`
	PassingScore      int          `json:"passingScore"`
	Domains           []ExamDomain `json:"domains"`
	RewardTokenSymbol string       `json:"rewardTokenSymbol"`
	IsActive          bool         `json:"isActive"`
	IsComingSoon      bool         `json:"isComingSoon"`
}

// Courses is the static catalog. Only CLF-C02 practice is live today.
var Courses = []Course{
	{
		ID:                "ccp",
		Name:              "AWS Certified Cloud Practitioner",
		CertificationCode: "CLF-C02",
		Description:       "Practice for the AWS Certified Cloud Practitioner (CLF-C02) exam with mock assessments.",
		Difficulty:        "foundational",
		QuestionCount:     50,
		PassingScore:      700,
		Domains:           ExamDomains,
		RewardTokenSymbol: "AWSP-CCP",
		IsActive:          true,
	},
	{
		ID:                "aws-basics",
		Name:              "AWS Basics",
		Description:       "Fundamentals of AWS Cloud for beginners, ahead of any certification track.",
		Difficulty:        "foundational",
		QuestionCount:     30,
		PassingScore:      700,
		RewardTokenSymbol: "AWSP-BASICS",
		IsComingSoon:      true,
	},
}

// CourseByID looks a course up in the catalog.
func CourseByID(id string) (Course, bool) {
	for _, c := range Courses {
		if c.ID == id {
			return c, true
		}
	}
	return Course{}, false
}

// ActiveCourses returns courses open for assessments.
func ActiveCourses() []Course {
	active := make([]Course, 0, len(Courses))
	for _, c := range Courses {
		if c.IsActive && !c.IsComingSoon {
			active = append(active, c)
		}
	}
	return active
}
