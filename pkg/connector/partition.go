// Package connector exposes the three public operations: Read, Write
// (upsert), and Delete, unified behind one mutation engine with a
// pluggable element-to-mutation function. The three public
// constructors below are thin configurations of that engine, not
// separate implementations.
package connector

import "github.com/nucleus/hkv-connector/pkg/hkvpb"

// partitionID builds the wire PartitionId for (databaseID, namespace),
// encoding "empty namespace" as an unset field rather than an empty
// string, matching the default-namespace distinction the Store draws
// on the wire.
func partitionID(projectID, databaseID, namespace string) *hkvpb.PartitionId {
	p := &hkvpb.PartitionId{ProjectId: projectID, DatabaseId: databaseID}
	if namespace != "" {
		p.NamespaceId = &namespace
	}
	return p
}
