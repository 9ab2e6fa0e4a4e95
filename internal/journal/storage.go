package journal

// Storage is the durable key-value contract the store persists through.
// Each logical collection is written as one serialized blob under a stable
// namespace string. Implementations guarantee atomic single-namespace writes
// but not cross-namespace atomicity: the store never assumes that writes to
// two namespaces in the same logical operation land together.
type Storage interface {
	// Put stores data under the namespace, replacing any previous value.
	Put(namespace string, data []byte) error

	// Get returns the data stored under the namespace.
	// Returns (nil, nil) when the namespace has never been written.
	Get(namespace string) ([]byte, error)

	// Delete removes the namespace. Deleting an absent namespace is a no-op.
	Delete(namespace string) error

	// Close releases any resources held by the backend.
	Close() error
}

// Namespaces used by the store. One per collection.
const (
	NamespaceEvents  = "events"
	NamespaceMoments = "moments"
	NamespaceRecaps  = "recaps"
	NamespaceReports = "reports"
)
