package values

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"
)

const urnPrefix = "urn:samm:"

// Element type segments used by meta-model and catalog URNs.
const (
	URNTypeMetaModel      = "meta-model"
	URNTypeCharacteristic = "characteristic"
	URNTypeEntity         = "entity"
	URNTypeUnit           = "unit"
)

var (
	urnNamespacePattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_-]*(\.[a-zA-Z0-9_-]+)*$`)
	urnNamePattern      = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_-]*$`)
)

// AspectModelURN globally identifies a model element.
//
// Format: urn:samm:<namespace>[:<element-type>]:<version>#<name>
type AspectModelURN struct {
	namespace   string
	elementType string
	version     string
	name        string
}

// ParseAspectModelURN parses and validates a URN string.
func ParseAspectModelURN(s string) (AspectModelURN, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return AspectModelURN{}, fmt.Errorf("aspect model URN cannot be empty")
	}
	if !strings.HasPrefix(s, urnPrefix) {
		return AspectModelURN{}, fmt.Errorf("invalid aspect model URN %q: must start with %q", s, urnPrefix)
	}

	body, name, found := strings.Cut(strings.TrimPrefix(s, urnPrefix), "#")
	if !found || name == "" {
		return AspectModelURN{}, fmt.Errorf("invalid aspect model URN %q: missing element name", s)
	}
	if !urnNamePattern.MatchString(name) {
		return AspectModelURN{}, fmt.Errorf("invalid aspect model URN %q: invalid element name %q", s, name)
	}

	parts := strings.Split(body, ":")
	var urn AspectModelURN
	switch len(parts) {
	case 2:
		urn = AspectModelURN{namespace: parts[0], version: parts[1], name: name}
	case 3:
		urn = AspectModelURN{namespace: parts[0], elementType: parts[1], version: parts[2], name: name}
		switch urn.elementType {
		case URNTypeMetaModel, URNTypeCharacteristic, URNTypeEntity, URNTypeUnit:
		default:
			return AspectModelURN{}, fmt.Errorf("invalid aspect model URN %q: unknown element type %q", s, urn.elementType)
		}
	default:
		return AspectModelURN{}, fmt.Errorf("invalid aspect model URN %q: expected namespace and version", s)
	}

	if !urnNamespacePattern.MatchString(urn.namespace) {
		return AspectModelURN{}, fmt.Errorf("invalid aspect model URN %q: invalid namespace %q", s, urn.namespace)
	}
	if _, err := semver.StrictNewVersion(urn.version); err != nil {
		return AspectModelURN{}, fmt.Errorf("invalid aspect model URN %q: version %q: %w", s, urn.version, err)
	}

	return urn, nil
}

// MustParseAspectModelURN parses a URN or panics (for tests/constants)
func MustParseAspectModelURN(s string) AspectModelURN {
	urn, err := ParseAspectModelURN(s)
	if err != nil {
		panic(err)
	}
	return urn
}

// String returns the string representation
func (u AspectModelURN) String() string {
	if u.IsZero() {
		return ""
	}
	if u.elementType != "" {
		return urnPrefix + u.namespace + ":" + u.elementType + ":" + u.version + "#" + u.name
	}
	return urnPrefix + u.namespace + ":" + u.version + "#" + u.name
}

// Namespace returns the reverse-domain namespace segment.
func (u AspectModelURN) Namespace() string {
	return u.namespace
}

// ElementType returns the optional element type segment (e.g. "unit").
func (u AspectModelURN) ElementType() string {
	return u.elementType
}

// Version returns the namespace version.
func (u AspectModelURN) Version() string {
	return u.version
}

// Name returns the local element name.
func (u AspectModelURN) Name() string {
	return u.name
}

// Sibling returns a URN in the same namespace and version with another local name.
func (u AspectModelURN) Sibling(name string) (AspectModelURN, error) {
	if !urnNamePattern.MatchString(name) {
		return AspectModelURN{}, fmt.Errorf("invalid element name %q", name)
	}
	sibling := u
	sibling.name = name
	return sibling, nil
}

// IsZero returns true if this is the zero value
func (u AspectModelURN) IsZero() bool {
	return u.name == ""
}

// Equals checks if two URNs are equal
func (u AspectModelURN) Equals(other AspectModelURN) bool {
	return u == other
}

// MarshalText implements encoding.TextMarshaler
func (u AspectModelURN) MarshalText() ([]byte, error) {
	return []byte(u.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (u *AspectModelURN) UnmarshalText(data []byte) error {
	if len(data) == 0 {
		*u = AspectModelURN{}
		return nil
	}
	urn, err := ParseAspectModelURN(string(data))
	if err != nil {
		return err
	}
	*u = urn
	return nil
}
