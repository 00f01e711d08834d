package domain

// StudentProfile is the profile shape for STUDENT accounts.
type StudentProfile struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	GradeLvl string `json:"gradeLevel,omitempty"`
	Bio      string `json:"bio,omitempty"`
}

// TeacherProfile is the profile shape for TEACHER accounts.
type TeacherProfile struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	Subject    string  `json:"subject,omitempty"`
	Bio        string  `json:"bio,omitempty"`
	HourlyRate float64 `json:"hourlyRate,omitempty"`
	Rating     float64 `json:"rating,omitempty"`
}

// Profile is a tagged union of the known profile shapes, resolved from the
// role claim at login. Exactly one branch is set.
type Profile struct {
	Student *StudentProfile `json:"student,omitempty"`
	Teacher *TeacherProfile `json:"teacher,omitempty"`
}

// NewStudentProfile wraps a student profile in the union.
func NewStudentProfile(p StudentProfile) *Profile {
	return &Profile{Student: &p}
}

// NewTeacherProfile wraps a teacher profile in the union.
func NewTeacherProfile(p TeacherProfile) *Profile {
	return &Profile{Teacher: &p}
}

// DisplayName returns the profile holder's name regardless of branch.
func (p *Profile) DisplayName() string {
	switch {
	case p == nil:
		return ""
	case p.Student != nil:
		return p.Student.Name
	case p.Teacher != nil:
		return p.Teacher.Name
	default:
		return ""
	}
}
