package dtype

type Nullability uint8

const (
	NonNullable Nullability = iota
	Nullable
)

func NullabilityOf(nullable bool) Nullability {
	if nullable {
		return Nullable
	}
	return NonNullable
}

func (n Nullability) IsNullable() bool {
	return n == Nullable
}

// String returns the suffix used by the type formatter.
func (n Nullability) String() string {
	if n == Nullable {
		return "?"
	}
	return "!"
}

// UnionNullability is used when two types are merged into one, e.g. two branches of a conditional.
func UnionNullability(a, b Nullability) Nullability {
	if a == Nullable || b == Nullable {
		return Nullable
	}
	return NonNullable
}
