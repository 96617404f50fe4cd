package models

type Car struct {
	ID             int64         `json:"id"`
	Model          string        `json:"model"`
	ManufacturerID int64         `json:"manufacturer_id"`
	Manufacturer   *Manufacturer `json:"manufacturer,omitempty"`
	Drivers        []*Driver     `json:"drivers,omitempty"`
}

// HasDriver reports whether the driver is among the car's loaded drivers.
func (c *Car) HasDriver(driverID int64) bool {
	for _, d := range c.Drivers {
		if d.ID == driverID {
			return true
		}
	}
	return false
}

// DriverIDs returns ids of the loaded drivers.
func (c *Car) DriverIDs() []int64 {
	ids := make([]int64, 0, len(c.Drivers))
	for _, d := range c.Drivers {
		ids = append(ids, d.ID)
	}
	return ids
}
