package memutils

// Validatable is anything DebugValidate can check for internal consistency
type Validatable interface {
	Validate() error
}
