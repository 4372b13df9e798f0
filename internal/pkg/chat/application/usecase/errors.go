package usecase

import "fmt"

// ErrPersistence indicates an infrastructure/repository failure inside a use
// case. Domain errors (invalid input, authorization, not found) pass through
// unwrapped so errors.Is keeps working at the controller.
var ErrPersistence = fmt.Errorf("chat use case persistence error")
