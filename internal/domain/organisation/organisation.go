// Package organisation holds the minimal tenant model the billing service
// needs: an organisation identity and its registered owner, used for the
// trial-provisioning ownership check.
package organisation

import (
	"fmt"
	"time"
)

// Organisation is the tenant entity subscriptions attach to.
type Organisation struct {
	id          string
	name        string
	ownerUserID string
	ownerEmail  string
	createdAt   time.Time
	updatedAt   time.Time
}

// ReconstructOrganisation rebuilds an organisation from persistence.
func ReconstructOrganisation(id, name, ownerUserID, ownerEmail string, createdAt, updatedAt time.Time) (*Organisation, error) {
	if id == "" {
		return nil, fmt.Errorf("organisation ID is required")
	}
	if ownerUserID == "" {
		return nil, fmt.Errorf("owner user ID is required")
	}
	return &Organisation{
		id:          id,
		name:        name,
		ownerUserID: ownerUserID,
		ownerEmail:  ownerEmail,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}, nil
}

func (o *Organisation) ID() string           { return o.id }
func (o *Organisation) Name() string         { return o.name }
func (o *Organisation) OwnerUserID() string  { return o.ownerUserID }
func (o *Organisation) OwnerEmail() string   { return o.ownerEmail }
func (o *Organisation) CreatedAt() time.Time { return o.createdAt }
func (o *Organisation) UpdatedAt() time.Time { return o.updatedAt }

// IsOwnedBy checks the requester against the registered owner.
func (o *Organisation) IsOwnedBy(userID string) bool {
	return userID != "" && o.ownerUserID == userID
}
