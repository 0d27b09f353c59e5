package avroschema

type entryState int

const (
	stateUnseen entryState = iota
	stateInProgress
	stateResolved
)

type entry struct {
	state     entryState
	name      string
	namespace string
}

// registry tracks named types of a single compilation. It is never shared
// between Compile calls.
type registry struct {
	entries map[string]entry
}

func newRegistry() *registry {
	return &registry{entries: map[string]entry{}}
}

func (r *registry) lookup(id string) entry {
	return r.entries[id]
}

// begin marks a named type as being generated. Its nested members may
// refer to it from now on.
func (r *registry) begin(id, name, namespace string) {
	r.entries[id] = entry{state: stateInProgress, name: name, namespace: namespace}
}

func (r *registry) resolve(id, name, namespace string) {
	r.entries[id] = entry{state: stateResolved, name: name, namespace: namespace}
}

// reference is the string other schemas use to point at e from within
// namespace ns.
func (e entry) reference(ns string) Name {
	if e.namespace == "" || e.namespace == ns {
		return Name(e.name)
	}
	return Name(e.namespace + "." + e.name)
}
