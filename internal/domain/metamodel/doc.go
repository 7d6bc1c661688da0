// Package metamodel defines the in-memory aspect meta-model: meta-class
// descriptors, localized descriptions, the property type hierarchy,
// constraints and property containers.
//
// A loader builds elements through the constructors in this package, which
// reject invariant violations (empty containing types, duplicate names,
// duplicate URNs) with an *InvariantError. Once built, the graph is read-only
// and may be shared across goroutines.
package metamodel
