package authcore

//go:generate go run github.com/dmarkham/enumer -type Status -trimprefix Status -transform upper -output status.gen.go

// Status is the verdict of an authentication attempt.
type Status int

const (
	StatusSuccess Status = iota
	StatusFailed
)
