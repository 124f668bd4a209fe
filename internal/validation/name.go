package validation

// ValidateName validates a user's display name
func ValidateName(name string) error {
	return ValidateLabel("name", name, 100)
}
