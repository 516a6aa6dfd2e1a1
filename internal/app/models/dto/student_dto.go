package dto

// StudentRequest is the create/update payload for a student. It binds from
// JSON or from a multipart form that may also carry a profileImage file.
type StudentRequest struct {
	Index           string `json:"index" form:"index" binding:"required,max=10" example:"201001"`
	FirstName       string `json:"firstName" form:"firstName" binding:"required,max=50" example:"Petar"`
	LastName        string `json:"lastName" form:"lastName" binding:"required,max=50" example:"Nikolov"`
	EnrollmentDate  string `json:"enrollmentDate" form:"enrollmentDate" example:"2022-10-01"`
	AcquiredCredits *int   `json:"acquiredCredits" form:"acquiredCredits" binding:"omitempty,min=0" example:"60"`
	CurrentSemester *int   `json:"currentSemester" form:"currentSemester" binding:"omitempty,min=1,max=12" example:"3"`
	EducationLevel  string `json:"educationLevel" form:"educationLevel" binding:"max=25" example:"Bachelor"`
	Version         int    `json:"version" form:"version" example:"1"`
	AccountRequest
}

// StudentListQuery holds student list filters
type StudentListQuery struct {
	Index     string `form:"index"`
	FirstName string `form:"firstName"`
	LastName  string `form:"lastName"`
	CourseID  *int64 `form:"courseId" binding:"omitempty,min=1"`
}
