package helpers

func DefaultBool(v *bool, def bool) bool {
	if v == nil {
		return def
	}

	return *v
}

func DefaultInt(v *int, def int) int {
	if v == nil {
		return def
	}

	return *v
}

func DefaultString(v *string, def string) string {
	if v == nil || *v == "" {
		return def
	}

	return *v
}
