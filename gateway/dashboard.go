package gateway

import "context"

// Product is a catalog entry as served by the dashboard API.
type Product struct {
	ID          string  `json:"_id,omitempty"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Category    string  `json:"category"`
	Image       string  `json:"image"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
	CreatedAt   string  `json:"createdAt,omitempty"`
}

// ProductUpdate is a partial update; nil fields are left untouched.
type ProductUpdate struct {
	Name        *string  `json:"name,omitempty"`
	Description *string  `json:"description,omitempty"`
	Category    *string  `json:"category,omitempty"`
	Image       *string  `json:"image,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	Quantity    *int     `json:"quantity,omitempty"`
}

// Campaign is a marketing campaign with its discount window.
type Campaign struct {
	ID                 string  `json:"_id,omitempty"`
	Title              string  `json:"title"`
	DiscountPercentage float64 `json:"discountPercentage"`
	StartDate          string  `json:"startDate,omitempty"`
	EndDate            string  `json:"endDate,omitempty"`
	IsActive           bool    `json:"isActive"`
	CreatedAt          string  `json:"createdAt,omitempty"`
	UpdatedAt          string  `json:"updatedAt,omitempty"`
}

// StatsKPIs are the headline numbers of the stats screen.
type StatsKPIs struct {
	TotalProducts int     `json:"totalProducts"`
	TotalStock    int     `json:"totalStock"`
	TotalValue    float64 `json:"totalValue"`
}

// ChartPoint is one slice of the stats distribution chart.
type ChartPoint struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// DashboardStats is the `/stats/dashboard` payload.
type DashboardStats struct {
	KPIs      StatsKPIs    `json:"kpis"`
	ChartData []ChartPoint `json:"chartData"`
}

// DashboardAPI is the data-service slice of the gateway: the CRUD endpoints
// behind the products, marketing, and stats screens. Every call goes through
// the client's bearer-token attachment and unauthorized interception.
type DashboardAPI struct {
	client *Client
}

func NewDashboardAPI(client *Client) *DashboardAPI {
	return &DashboardAPI{client: client}
}

func (d *DashboardAPI) ListProducts(ctx context.Context) ([]Product, error) {
	var products []Product
	if err := d.client.Get(ctx, "/products", &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (d *DashboardAPI) CreateProduct(ctx context.Context, product Product) (*Product, error) {
	created := &Product{}
	if err := d.client.Post(ctx, "/products", product, created); err != nil {
		return nil, err
	}
	return created, nil
}

func (d *DashboardAPI) UpdateProduct(ctx context.Context, id string, update ProductUpdate) (*Product, error) {
	updated := &Product{}
	if err := d.client.Patch(ctx, "/products/"+id, update, updated); err != nil {
		return nil, err
	}
	return updated, nil
}

func (d *DashboardAPI) DeleteProduct(ctx context.Context, id string) error {
	return d.client.Delete(ctx, "/products/"+id, nil)
}

func (d *DashboardAPI) ListCampaigns(ctx context.Context) ([]Campaign, error) {
	var campaigns []Campaign
	if err := d.client.Get(ctx, "/marketing", &campaigns); err != nil {
		return nil, err
	}
	return campaigns, nil
}

func (d *DashboardAPI) CreateCampaign(ctx context.Context, campaign Campaign) (*Campaign, error) {
	created := &Campaign{}
	if err := d.client.Post(ctx, "/marketing", campaign, created); err != nil {
		return nil, err
	}
	return created, nil
}

// ToggleCampaign flips a campaign's active flag and returns the updated
// record.
func (d *DashboardAPI) ToggleCampaign(ctx context.Context, id string) (*Campaign, error) {
	toggled := &Campaign{}
	if err := d.client.Patch(ctx, "/marketing/"+id+"/toggle", nil, toggled); err != nil {
		return nil, err
	}
	return toggled, nil
}

func (d *DashboardAPI) DeleteCampaign(ctx context.Context, id string) error {
	return d.client.Delete(ctx, "/marketing/"+id, nil)
}

func (d *DashboardAPI) Stats(ctx context.Context) (*DashboardStats, error) {
	stats := &DashboardStats{}
	if err := d.client.Get(ctx, "/stats/dashboard", stats); err != nil {
		return nil, err
	}
	return stats, nil
}
