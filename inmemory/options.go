package inmemory

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/krisalay/gql-cache-patch/eviction"
	"github.com/krisalay/gql-cache-patch/expiration"
	"github.com/krisalay/gql-cache-patch/types"
	"github.com/krisalay/gql-cache-patch/writepolicy"
)

// DataIDFunc returns the data id an object is normalized under, or false to
// store the object inline in its parent.
type DataIDFunc func(obj map[string]any) (string, bool)

// DefaultDataIDFromObject normalizes objects that carry both __typename and
// id (or _id) as "Typename:id".
func DefaultDataIDFromObject(obj map[string]any) (string, bool) {
	typename, _ := obj[types.TypenameKey].(string)
	if typename == "" {
		return "", false
	}
	for _, key := range []string{"id", "_id"} {
		if id, ok := obj[key]; ok && id != nil {
			return fmt.Sprintf("%s:%v", typename, id), true
		}
	}
	return "", false
}

type options struct {
	shards        int
	capacity      int
	policy        eviction.PolicyType
	expiration    expiration.Strategy
	storage       types.Storage
	writePolicy   writepolicy.WritePolicy
	metrics       types.Metrics
	logger        *zap.Logger
	addTypename   bool
	dataID        DataIDFunc
	possibleTypes map[string][]string
}

func defaultOptions() options {
	return options{
		shards:      4,
		policy:      eviction.LRU,
		logger:      zap.NewNop(),
		addTypename: true,
		dataID:      DefaultDataIDFromObject,
	}
}

// Option configures a Cache.
type Option func(*options)

// WithShards sets the number of shards entries are spread over.
func WithShards(n int) Option {
	return func(o *options) { o.shards = n }
}

// WithCapacity bounds the number of non-root entries. 0 means unbounded.
func WithCapacity(n int) Option {
	return func(o *options) { o.capacity = n }
}

// WithEviction picks the policy used when a shard is full.
func WithEviction(p eviction.PolicyType) Option {
	return func(o *options) { o.policy = p }
}

// WithExpiration gives entries a TTL.
func WithExpiration(s expiration.Strategy) Option {
	return func(o *options) { o.expiration = s }
}

// WithStorage makes entries missing from memory load from s.
func WithStorage(s types.Storage) Option {
	return func(o *options) { o.storage = s }
}

// WithWritePolicy forwards entry writes to persistent storage.
func WithWritePolicy(w writepolicy.WritePolicy) Option {
	return func(o *options) { o.writePolicy = w }
}

func WithMetrics(m types.Metrics) Option {
	return func(o *options) { o.metrics = m }
}

func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithAddTypename controls whether reads return the stored __typename of
// every object even when it was not selected. Defaults to true.
func WithAddTypename(b bool) Option {
	return func(o *options) { o.addTypename = b }
}

func WithDataIDFromObject(f DataIDFunc) Option {
	return func(o *options) {
		if f != nil {
			o.dataID = f
		}
	}
}

// WithPossibleTypes declares the concrete types of abstract types, so
// fragments on interfaces and unions match their members.
func WithPossibleTypes(m map[string][]string) Option {
	return func(o *options) { o.possibleTypes = m }
}
