package domain

import "github.com/google/uuid"

// Owner identifies the authenticated user a ledger call acts for. It is
// verified by the caller and never derived inside the ledger.
type Owner = uuid.UUID
