package domain

var Tables = []interface{}{
	// System
	&SysConfig{},
	// Catalog
	&User{},
	&Store{},
	&Menu{},
	&Item{},
}
