package dto

// ErrorPage is the context of the rendered error page
type ErrorPage struct {
	Status  int
	Title   string
	Message string
}
