package model

// Credentials is the request-scoped authorization context derived from a
// validated API token. It is recomputed from the store on every request and
// never cached, so role changes and revocations take effect on the very next
// call.
type Credentials struct {
	UserID  int
	TokenID int
	IsAdmin bool
	// TeacherOf holds the course IDs the user currently teaches.
	TeacherOf []int
}

// TeachesCourse reports whether the credentials grant the TEACHER role for
// the given course.
func (c *Credentials) TeachesCourse(courseID int) bool {
	for _, id := range c.TeacherOf {
		if id == courseID {
			return true
		}
	}
	return false
}
