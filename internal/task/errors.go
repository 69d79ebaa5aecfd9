package task

import "errors"

var (
	errNoPlanner     = errors.New("cannot advance: no planner assigned")
	errNoExecutor    = errors.New("cannot advance: no executor assigned")
	errCannotAdvance = errors.New("cannot advance")
)
