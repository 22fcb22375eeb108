// Package recordstore implements the domain repositories over the JSON record
// store. Collections are cached in memory and rewritten whole on every
// mutation; ids are assigned as max existing + 1.
package recordstore

const (
	questionsCollection = "doctorprep_questions"
	answersCollection   = "doctorprep_answers"
	studentsCollection  = "doctorprep_students"
	progressCollection  = "doctorprep_progress"
)
