// Package snapshot provides the portable structural form of a circuit, used
// for save/load and clipboard transfer.
//
// # Wire Format
//
// A [Document] is two ordered collections. Nodes and sockets carry the IDs
// the graph assigned at creation, and connections refer to nodes by those
// IDs and to sockets by index:
//
//	{
//	    "nodes": [
//	        {
//	            "id": 1, "type": "Input", "pos_x": 0, "pos_y": 0,
//	            "title": "Input", "value": true,
//	            "inputs": [],
//	            "outputs": [{"id": 2, "index": 0, "value": true}]
//	        },
//	        ...
//	    ],
//	    "connections": [
//	        {"id": 9, "start_node": 1, "start_socket": 0, "end_node": 3, "end_socket": 0}
//	    ]
//	}
//
// JSON (four-space indent) is the default encoding; TOML and YAML carry the
// same field names. [FormatFromPath] picks the encoding from a file
// extension.
//
// # Clipboard
//
// A [Clipboard] has the same node records, but its connections point at
// positions in its own node list rather than at IDs, so a copied subset
// pastes into any graph. [Paste] applies a position offset so the copy does
// not cover the original.
//
// # Deserialization
//
// [Deserialize] validates the whole document before it touches the graph;
// a MALFORMED_SNAPSHOT error leaves the graph unchanged. Node records are
// then rebuilt in order with fresh IDs, connections are rewired through a
// table from document IDs to the new nodes, and a final propagation pass
// makes every derived value consistent. Problems that only affect one record
// are recovered and reported in [Fragment.Warnings]:
//
//   - DANGLING_REFERENCE: a connection names a node missing from the
//     document, a socket index out of range, or is rejected by the graph;
//     the connection is skipped
//   - UNKNOWN_NODE_TYPE: the record's type tag is unknown; a Default node
//     takes its place
//
// [DeserializeInto] runs the same algorithm against any [Builder], which
// lets an editor turn every created node and connection into an undoable
// command.
package snapshot
