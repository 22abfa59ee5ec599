package domain

// Client is a salon customer
type Client struct {
	ID             int64
	OrganizationID int64
	Name           string
	Phone          *string
}
