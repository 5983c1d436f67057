package trait

// Access is the read/write contract a module declares on a trait. The
// combination of every module's declared access on a trait is validated as a
// whole once all modules have finished declaring.
type Access int

const (
	// AccessUnknown marks a declaration whose mode was never resolved.
	// Always a validation error.
	AccessUnknown Access = iota
	// AccessPrivate grants one module exclusive read and write access.
	AccessPrivate
	// AccessOwned lets this module write while any module may read.
	AccessOwned
	// AccessGenerated is like Owned, but some other module must read it.
	AccessGenerated
	// AccessShared lets this module read and write alongside others.
	AccessShared
	// AccessRequired declares a read dependency another module must satisfy
	// by writing.
	AccessRequired
	// AccessOptional declares a read that tolerates having no writer.
	AccessOptional

	numAccess
)

var accessNames = [...]string{
	AccessUnknown:   "UNKNOWN",
	AccessPrivate:   "PRIVATE",
	AccessOwned:     "OWNED",
	AccessGenerated: "GENERATED",
	AccessShared:    "SHARED",
	AccessRequired:  "REQUIRED",
	AccessOptional:  "OPTIONAL",
}

func (a Access) String() string {
	if a < 0 || int(a) >= len(accessNames) {
		return "INVALID"
	}
	return accessNames[a]
}

// Writes reports whether a module holding this access mode writes the trait.
func (a Access) Writes() bool {
	switch a {
	case AccessPrivate, AccessOwned, AccessGenerated, AccessShared:
		return true
	}
	return false
}
