package parts

type CreatePartRequest struct {
	Name        string `json:"name" binding:"required"`
	Unit        string `json:"unit" binding:"required"`
	MinQuantity int    `json:"min_quantity"`
	Location    string `json:"location"`
	Note        string `json:"note"`
	Accounting  bool   `json:"accounting"`
	Critical    bool   `json:"critical"`
}

type PatchPartRequest struct {
	Name        *string `json:"name"`
	Unit        *string `json:"unit"`
	MinQuantity *int    `json:"min_quantity"`
	Location    *string `json:"location"`
	Note        *string `json:"note"`
	Accounting  *bool   `json:"accounting"`
	Critical    *bool   `json:"critical"`
}

type SetDeviceFlagRequest struct {
	Device string `json:"device" binding:"required"`
	Used   *bool  `json:"used" binding:"required"`
}
