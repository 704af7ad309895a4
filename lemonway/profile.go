package lemonway

// Profile is a deployment mode of the service: the default attributes a
// client must be initialized with and the operations it can bind.
type Profile struct {
	Name     string
	Required []string
	Optional []string
	catalog  []*Operation
}

// Operations lists the catalog of the profile in declaration order.
func (p Profile) Operations() []*Operation {
	out := make([]*Operation, len(p.catalog))
	copy(out, p.catalog)
	return out
}

// Lookup finds an operation of the profile by its snake_case name.
func (p Profile) Lookup(name string) (*Operation, bool) {
	for _, op := range p.catalog {
		if op.Name == name {
			return op, true
		}
	}
	return nil, false
}

var (
	// WhiteLabel is the white-label DirectKit: every call carries the
	// platform credentials and the end-user context as default attributes.
	WhiteLabel = Profile{
		Name:     "white_label",
		Required: []string{"wlLogin", "wlPass", "wlPDV", "version", "language", "channel", "walletIp"},
		Optional: []string{"format", "model", "walletUa"},
		catalog:  whiteLabelCatalog,
	}

	// WebMerchant has no default attributes and no bound operations; use Query.
	WebMerchant = Profile{
		Name: "web_merchant",
	}
)
