package domain

var Tables = []interface{}{
	// System
	&SysConfig{},
	&SysOprLog{},
	// Accounts
	&Role{},
	&State{},
	&City{},
	&User{},
	// Catalog
	&Category{},
	&Item{},
	&OwnerItem{},
	// Rentals
	&Cart{},
	&OrderTable{},
	&Bill{},
}
