package dto

// TeacherRequest is the create/update payload for a teacher
type TeacherRequest struct {
	FirstName    string `json:"firstName" form:"firstName" binding:"required,max=50" example:"Ivan"`
	LastName     string `json:"lastName" form:"lastName" binding:"required,max=50" example:"Petrovski"`
	Degree       string `json:"degree" form:"degree" binding:"max=50" example:"PhD"`
	AcademicRank string `json:"academicRank" form:"academicRank" binding:"max=25" example:"Professor"`
	OfficeNumber string `json:"officeNumber" form:"officeNumber" binding:"max=10" example:"A101"`
	HireDate     string `json:"hireDate" form:"hireDate" example:"2015-09-01"`
	Version      int    `json:"version" form:"version" example:"1"`
	AccountRequest
}

// TeacherListQuery holds teacher list filters
type TeacherListQuery struct {
	FirstName    string `form:"firstName"`
	LastName     string `form:"lastName"`
	Degree       string `form:"degree"`
	AcademicRank string `form:"academicRank"`
}
