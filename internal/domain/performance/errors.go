package performance

import "errors"

var (
	ErrScoreNotFound = errors.New("performance score not found")
)
