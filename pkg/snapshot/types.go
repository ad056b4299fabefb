package snapshot

// Document is the structural snapshot of a whole circuit or a subset of it.
type Document struct {
	Nodes       []Node       `json:"nodes" toml:"nodes" yaml:"nodes"`
	Connections []Connection `json:"connections" toml:"connections" yaml:"connections"`
}

// Node is one node record.
type Node struct {
	ID    uint64  `json:"id" toml:"id" yaml:"id"`
	Type  string  `json:"type" toml:"type" yaml:"type"`
	PosX  float64 `json:"pos_x" toml:"pos_x" yaml:"pos_x"`
	PosY  float64 `json:"pos_y" toml:"pos_y" yaml:"pos_y"`
	Title string  `json:"title" toml:"title" yaml:"title"`

	// Value is the externally supplied value of Input nodes.
	Value bool `json:"value,omitempty" toml:"value,omitempty" yaml:"value,omitempty"`

	Inputs  []Socket `json:"inputs" toml:"inputs" yaml:"inputs"`
	Outputs []Socket `json:"outputs" toml:"outputs" yaml:"outputs"`

	// Properties holds type-specific state such as a FileOutput path.
	Properties map[string]string `json:"properties,omitempty" toml:"properties,omitempty" yaml:"properties,omitempty"`
}

// Socket is one socket record.
type Socket struct {
	ID    uint64 `json:"id" toml:"id" yaml:"id"`
	Index int    `json:"index" toml:"index" yaml:"index"`
	Value bool   `json:"value" toml:"value" yaml:"value"`
}

// Connection is one connection record. Endpoints are node IDs plus socket
// indices.
type Connection struct {
	ID          uint64 `json:"id" toml:"id" yaml:"id"`
	StartNode   uint64 `json:"start_node" toml:"start_node" yaml:"start_node"`
	StartSocket int    `json:"start_socket" toml:"start_socket" yaml:"start_socket"`
	EndNode     uint64 `json:"end_node" toml:"end_node" yaml:"end_node"`
	EndSocket   int    `json:"end_socket" toml:"end_socket" yaml:"end_socket"`
}

// Clipboard is a copied subset. Connection endpoints are indices into Nodes.
type Clipboard struct {
	Nodes       []Node           `json:"nodes" toml:"nodes" yaml:"nodes"`
	Connections []ClipConnection `json:"connections" toml:"connections" yaml:"connections"`
}

// ClipConnection is a connection inside a [Clipboard].
type ClipConnection struct {
	StartNode   int `json:"start_node" toml:"start_node" yaml:"start_node"`
	StartSocket int `json:"start_socket" toml:"start_socket" yaml:"start_socket"`
	EndNode     int `json:"end_node" toml:"end_node" yaml:"end_node"`
	EndSocket   int `json:"end_socket" toml:"end_socket" yaml:"end_socket"`
}

// Document converts the clipboard into a document whose node IDs are the
// one-based positions in Nodes. Out-of-range indices become dangling
// references.
func (c Clipboard) Document() Document {
	doc := Document{
		Nodes:       make([]Node, len(c.Nodes)),
		Connections: make([]Connection, 0, len(c.Connections)),
	}
	for i, n := range c.Nodes {
		n.ID = uint64(i + 1)
		doc.Nodes[i] = n
	}
	ref := func(i int) uint64 {
		if i < 0 || i >= len(c.Nodes) {
			return 0
		}
		return uint64(i + 1)
	}
	for i, cc := range c.Connections {
		doc.Connections = append(doc.Connections, Connection{
			ID:          uint64(i + 1),
			StartNode:   ref(cc.StartNode),
			StartSocket: cc.StartSocket,
			EndNode:     ref(cc.EndNode),
			EndSocket:   cc.EndSocket,
		})
	}
	return doc
}

// Empty reports whether the clipboard holds no nodes.
func (c Clipboard) Empty() bool { return len(c.Nodes) == 0 }
