// Code generated manually for bootstrap. Replace with protoc-generated
// code once the .proto definitions for the Store RPC surface are
// finalized; the struct tags below already mirror protoc-gen-go output
// so swapping in real generated code is a drop-in replacement.
package hkvpb

// PartitionId addresses a (project, database, namespace) triple.
// NamespaceId is a pointer so an absent namespace can be distinguished
// from an explicit empty one on the wire: nil means "field unset",
// matching the server's default-namespace semantics.
type PartitionId struct {
	ProjectId   string  `protobuf:"bytes,1,opt,name=project_id,json=projectId,proto3" json:"project_id,omitempty"`
	DatabaseId  string  `protobuf:"bytes,2,opt,name=database_id,json=databaseId,proto3" json:"database_id,omitempty"`
	NamespaceId *string `protobuf:"bytes,3,opt,name=namespace_id,json=namespaceId,proto3,oneof" json:"namespace_id,omitempty"`
}

// PathElement is one segment of a Key.
type PathElement struct {
	Kind string `protobuf:"bytes,1,opt,name=kind,proto3" json:"kind,omitempty"`
	Id   int64  `protobuf:"varint,2,opt,name=id,proto3,oneof" json:"id,omitempty"`
	Name string `protobuf:"bytes,3,opt,name=name,proto3,oneof" json:"name,omitempty"`
}

// Key is an ordered path of PathElements scoped to a partition.
type Key struct {
	PartitionId *PartitionId   `protobuf:"bytes,1,opt,name=partition_id,json=partitionId,proto3" json:"partition_id,omitempty"`
	Path        []*PathElement `protobuf:"bytes,2,rep,name=path,proto3" json:"path,omitempty"`
}

// Value is a tagged-union scalar/composite value.
type Value struct {
	StringValue    *string  `protobuf:"bytes,1,opt,name=string_value,json=stringValue,proto3,oneof" json:"string_value,omitempty"`
	IntegerValue   *int64   `protobuf:"varint,2,opt,name=integer_value,json=integerValue,proto3,oneof" json:"integer_value,omitempty"`
	DoubleValue    *float64 `protobuf:"fixed64,3,opt,name=double_value,json=doubleValue,proto3,oneof" json:"double_value,omitempty"`
	BooleanValue   *bool    `protobuf:"varint,4,opt,name=boolean_value,json=booleanValue,proto3,oneof" json:"boolean_value,omitempty"`
	TimestampValue *int64   `protobuf:"varint,5,opt,name=timestamp_value,json=timestampValue,proto3,oneof" json:"timestamp_value,omitempty"` // ms since epoch
	KeyValue       *Key     `protobuf:"bytes,6,opt,name=key_value,json=keyValue,proto3,oneof" json:"key_value,omitempty"`
	BlobValue      []byte   `protobuf:"bytes,7,opt,name=blob_value,json=blobValue,proto3,oneof" json:"blob_value,omitempty"`
}

// Entity is a Key plus a bag of named properties.
type Entity struct {
	Key        *Key              `protobuf:"bytes,1,opt,name=key,proto3" json:"key,omitempty"`
	Properties map[string]*Value `protobuf:"bytes,2,rep,name=properties,proto3" json:"properties,omitempty" protobuf_key:"bytes,1,opt,name=key,proto3" protobuf_val:"bytes,2,opt,name=value,proto3"`
}

// PropertyReference names a property by (possibly dotted) path.
type PropertyReference struct {
	Name string `protobuf:"bytes,1,opt,name=name,proto3" json:"name,omitempty"`
}

// PropertyFilterOp enumerates comparison operators.
type PropertyFilterOp int32

const (
	OpUnspecified PropertyFilterOp = 0
	OpLessThan    PropertyFilterOp = 1
	OpEqual       PropertyFilterOp = 2
	OpGreaterThan PropertyFilterOp = 3
)

// PropertyFilter compares a property against a literal value.
type PropertyFilter struct {
	Property *PropertyReference `protobuf:"bytes,1,opt,name=property,proto3" json:"property,omitempty"`
	Op       PropertyFilterOp   `protobuf:"varint,2,opt,name=op,proto3" json:"op,omitempty"`
	Value    *Value             `protobuf:"bytes,3,opt,name=value,proto3" json:"value,omitempty"`
}

// Filter is either a single PropertyFilter or an AND of PropertyFilters
// (CompositeFilter); the statistics queries the planner issues need the
// latter (kind_name == K AND timestamp == t).
type Filter struct {
	PropertyFilter  *PropertyFilter  `protobuf:"bytes,1,opt,name=property_filter,json=propertyFilter,proto3" json:"property_filter,omitempty"`
	CompositeFilter *CompositeFilter `protobuf:"bytes,2,opt,name=composite_filter,json=compositeFilter,proto3" json:"composite_filter,omitempty"`
}

// CompositeFilter ANDs together a list of property filters.
type CompositeFilter struct {
	Filters []*PropertyFilter `protobuf:"bytes,1,rep,name=filters,proto3" json:"filters,omitempty"`
}

// PropertyOrderDirection enumerates sort directions.
type PropertyOrderDirection int32

const (
	DirectionUnspecified PropertyOrderDirection = 0
	Ascending            PropertyOrderDirection = 1
	Descending           PropertyOrderDirection = 2
)

// PropertyOrder orders query results by a property.
type PropertyOrder struct {
	Property  *PropertyReference     `protobuf:"bytes,1,opt,name=property,proto3" json:"property,omitempty"`
	Direction PropertyOrderDirection `protobuf:"varint,2,opt,name=direction,proto3" json:"direction,omitempty"`
}

// KindExpression names a single kind a query runs over.
type KindExpression struct {
	Name string `protobuf:"bytes,1,opt,name=name,proto3" json:"name,omitempty"`
}

// Query is a structured query: exactly one kind, optional filters,
// optional ordering, optional user limit, optional cursors.
type Query struct {
	Kind         []*KindExpression `protobuf:"bytes,1,rep,name=kind,proto3" json:"kind,omitempty"`
	Filter       *Filter           `protobuf:"bytes,2,opt,name=filter,proto3" json:"filter,omitempty"`
	Order        []*PropertyOrder  `protobuf:"bytes,3,rep,name=order,proto3" json:"order,omitempty"`
	Limit        *int32            `protobuf:"varint,4,opt,name=limit,proto3,oneof" json:"limit,omitempty"`
	StartCursor  []byte            `protobuf:"bytes,5,opt,name=start_cursor,json=startCursor,proto3" json:"start_cursor,omitempty"`
	EndCursor    []byte            `protobuf:"bytes,6,opt,name=end_cursor,json=endCursor,proto3" json:"end_cursor,omitempty"`
}

// ReadOptions carries a caller-supplied snapshot timestamp.
type ReadOptions struct {
	ReadTimeMs *int64 `protobuf:"varint,1,opt,name=read_time_ms,json=readTimeMs,proto3,oneof" json:"read_time_ms,omitempty"`
}

// MoreResultsType enumerates pagination continuation states.
type MoreResultsType int32

const (
	MoreResultsUnspecified     MoreResultsType = 0
	NotFinished                MoreResultsType = 1
	MoreResultsAfterLimit      MoreResultsType = 2
	MoreResultsAfterCursor     MoreResultsType = 3
	NoMoreResults              MoreResultsType = 4
)

// EntityResult pairs an entity with its cursor position.
type EntityResult struct {
	Entity *Entity `protobuf:"bytes,1,opt,name=entity,proto3" json:"entity,omitempty"`
	Cursor []byte  `protobuf:"bytes,2,opt,name=cursor,proto3" json:"cursor,omitempty"`
}

// QueryResultBatch is one page of query results.
type QueryResultBatch struct {
	EntityResults []*EntityResult `protobuf:"bytes,1,rep,name=entity_results,json=entityResults,proto3" json:"entity_results,omitempty"`
	EndCursor     []byte          `protobuf:"bytes,2,opt,name=end_cursor,json=endCursor,proto3" json:"end_cursor,omitempty"`
	MoreResults   MoreResultsType `protobuf:"varint,3,opt,name=more_results,json=moreResults,proto3" json:"more_results,omitempty"`
}

// RunQueryRequest drives both structured-query and GQL-query execution.
type RunQueryRequest struct {
	ProjectId   string       `protobuf:"bytes,1,opt,name=project_id,json=projectId,proto3" json:"project_id,omitempty"`
	DatabaseId  string       `protobuf:"bytes,2,opt,name=database_id,json=databaseId,proto3" json:"database_id,omitempty"`
	PartitionId *PartitionId `protobuf:"bytes,3,opt,name=partition_id,json=partitionId,proto3" json:"partition_id,omitempty"`
	Query       *Query       `protobuf:"bytes,4,opt,name=query,proto3,oneof" json:"query,omitempty"`
	GqlQuery    *string      `protobuf:"bytes,5,opt,name=gql_query,json=gqlQuery,proto3,oneof" json:"gql_query,omitempty"`
	ReadOptions *ReadOptions `protobuf:"bytes,6,opt,name=read_options,json=readOptions,proto3" json:"read_options,omitempty"`
}

// RunQueryResponse returns one page of results plus the (possibly
// server-translated) structured query that was actually executed.
type RunQueryResponse struct {
	Batch *QueryResultBatch `protobuf:"bytes,1,opt,name=batch,proto3" json:"batch,omitempty"`
	Query *Query            `protobuf:"bytes,2,opt,name=query,proto3" json:"query,omitempty"`
}

// MutationOp enumerates the four mutation kinds; the connector only
// ever emits Upsert and Delete (the idempotent pair).
type MutationOp int32

const (
	MutationUnspecified MutationOp = 0
	MutationInsert      MutationOp = 1
	MutationUpdate      MutationOp = 2
	MutationUpsert      MutationOp = 3
	MutationDelete      MutationOp = 4
)

// Mutation is a tagged-variant write operation.
type Mutation struct {
	Op     MutationOp `protobuf:"varint,1,opt,name=op,proto3" json:"op,omitempty"`
	Entity *Entity    `protobuf:"bytes,2,opt,name=entity,proto3,oneof" json:"entity,omitempty"` // set for upsert/insert/update
	Key    *Key       `protobuf:"bytes,3,opt,name=key,proto3,oneof" json:"key,omitempty"`       // set for delete
}

// CommitMode enumerates commit transaction modes. The connector only
// ever issues NonTransactional commits; cross-entity transactions are
// out of scope.
type CommitMode int32

const (
	CommitModeUnspecified  CommitMode = 0
	Transactional          CommitMode = 1
	NonTransactional       CommitMode = 2
)

// CommitRequest packages a batch of mutations into one RPC.
type CommitRequest struct {
	ProjectId  string      `protobuf:"bytes,1,opt,name=project_id,json=projectId,proto3" json:"project_id,omitempty"`
	DatabaseId string      `protobuf:"bytes,2,opt,name=database_id,json=databaseId,proto3" json:"database_id,omitempty"`
	Mode       CommitMode  `protobuf:"varint,3,opt,name=mode,proto3" json:"mode,omitempty"`
	Mutations  []*Mutation `protobuf:"bytes,4,rep,name=mutations,proto3" json:"mutations,omitempty"`
}

// MutationResult reports the outcome of a single mutation within a commit.
type MutationResult struct {
	Key *Key `protobuf:"bytes,1,opt,name=key,proto3" json:"key,omitempty"`
}

// CommitResponse is returned on a successful Commit RPC.
type CommitResponse struct {
	MutationResults []*MutationResult `protobuf:"bytes,1,rep,name=mutation_results,json=mutationResults,proto3" json:"mutation_results,omitempty"`
}

// SplitQueryRequest asks the Store to partition a splittable query into
// approximately NumSplits sub-queries covering disjoint key ranges.
type SplitQueryRequest struct {
	ProjectId   string       `protobuf:"bytes,1,opt,name=project_id,json=projectId,proto3" json:"project_id,omitempty"`
	DatabaseId  string       `protobuf:"bytes,2,opt,name=database_id,json=databaseId,proto3" json:"database_id,omitempty"`
	PartitionId *PartitionId `protobuf:"bytes,3,opt,name=partition_id,json=partitionId,proto3" json:"partition_id,omitempty"`
	Query       *Query       `protobuf:"bytes,4,opt,name=query,proto3" json:"query,omitempty"`
	NumSplits   int32        `protobuf:"varint,5,opt,name=num_splits,json=numSplits,proto3" json:"num_splits,omitempty"`
}

// SplitQueryResponse carries the resulting sub-queries. The Store may
// return fewer splits than requested.
type SplitQueryResponse struct {
	Splits []*Query `protobuf:"bytes,1,rep,name=splits,proto3" json:"splits,omitempty"`
}
