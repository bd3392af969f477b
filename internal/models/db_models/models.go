package db_models

// All lists every table in migration order.
func All() []interface{} {
	return []interface{}{
		&Account{},
		&Category{},
		&Subcategory{},
		&Client{},
		&Consultation{},
		&ConsultationHistory{},
	}
}
