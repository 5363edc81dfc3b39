package dao

import (
	"fmt"

	"github.com/rvalenzuela/condo-reconciliation/infra/db/model"
)

func (d *dao) GetHouseByID(id int64) (model.House, error) {
	var h model.House
	if err := d.db.First(&h, id).Error; err != nil {
		return h, notFound(err, "house", id)
	}
	return h, nil
}

func (d *dao) GetHouseByNumber(number int) (model.House, error) {
	var h model.House
	if err := d.db.Where("number = ?", number).First(&h).Error; err != nil {
		return h, notFound(err, "house", int64(number))
	}
	return h, nil
}

func (d *dao) GetHouses() ([]model.House, error) {
	var houses []model.House
	if err := d.db.Order("number ASC").Find(&houses).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch houses: %w", err)
	}
	return houses, nil
}

func (d *dao) CreateHouse(h *model.House) error {
	if err := d.db.Create(h).Error; err != nil {
		return fmt.Errorf("failed to create house %d: %w", h.Number, err)
	}
	return nil
}

func (d *dao) GetHouseBalance(houseID int64) (model.HouseBalance, error) {
	var b model.HouseBalance
	if err := d.db.Where("house_id = ?", houseID).First(&b).Error; err != nil {
		return b, notFound(err, "house_balance", houseID)
	}
	return b, nil
}

func (d *dao) SaveHouseBalance(b model.HouseBalance) error {
	if err := d.db.Save(&b).Error; err != nil {
		return fmt.Errorf("failed to save balance for house %d: %w", b.HouseID, err)
	}
	return nil
}
