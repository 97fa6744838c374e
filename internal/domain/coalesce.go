package domain

// CoalesceStr returns the first non-empty string from vals.
func CoalesceStr(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// Int64FromPtrWithDefault returns the first non-nil *int64 value, or the fallback.
func Int64FromPtrWithDefault(fallback int64, ptrs ...*int64) int64 {
	for _, p := range ptrs {
		if p != nil {
			return *p
		}
	}
	return fallback
}

// Int64Ptr returns a pointer to v, or nil when v is zero.
func Int64Ptr(v int64) *int64 {
	if v == 0 {
		return nil
	}
	return &v
}
