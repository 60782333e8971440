package indexer

import "context"

// Oracle answers availability checks for labels under a fixed parent name.
// It implements registration.AvailabilityOracle.
type Oracle struct {
	client     *Client
	parentName string
}

// NewOracle creates an availability oracle backed by the indexer.
func NewOracle(client *Client, parentName string) *Oracle {
	return &Oracle{client: client, parentName: parentName}
}

// CheckAvailable reports whether label can still be minted. A lookup error
// is returned so the caller can fail closed (treat the name as taken).
func (o *Oracle) CheckAvailable(ctx context.Context, label string) (bool, error) {
	_, total, err := o.client.Nodes(ctx, NodeQuery{
		Name:       label + "." + o.parentName,
		ParentName: o.parentName,
	})
	if err != nil {
		return false, err
	}
	return total == 0, nil
}
