package discovery

// Profile bundles the field configs and sample values of one catalog.
type Profile struct {
	Configs map[Method]FieldConfig
	Samples map[string]any
}

// FoodstoreProfile returns the built-in foodstore profile. The backend
// silently requires brand and lotNumber on create, and brand on replace.
func FoodstoreProfile() Profile {
	documentedRequired := []string{"name", "category"}
	documentedOptional := []string{"price", "description"}
	potential := []string{"brand", "lotNumber", "producer", "expirationDate", "storageLocation", "inventoryCount"}

	return Profile{
		Configs: map[Method]FieldConfig{
			MethodPOST: FieldConfig{
				DocumentedRequired:    documentedRequired,
				DocumentedOptional:    documentedOptional,
				PotentialUndocumented: potential,
				ActualRequired:        []string{"name", "category", "brand", "lotNumber"},
			}.Clone(),
			MethodPUT: FieldConfig{
				DocumentedRequired:    documentedRequired,
				DocumentedOptional:    documentedOptional,
				PotentialUndocumented: potential,
				ActualRequired:        []string{"name", "category", "brand"},
			}.Clone(),
		},
		Samples: map[string]any{
			"name":            "Test Food",
			"category":        "Test Category",
			"price":           10.99,
			"description":     "Test description",
			"brand":           "Test Brand",
			"lotNumber":       "LOT001",
			"producer":        "Test Producer",
			"expirationDate":  "2025-12-31",
			"storageLocation": "Warehouse A",
			"inventoryCount":  100,
		},
	}
}

// MedstoreProfile returns the built-in medstore profile. The backend
// silently requires supplier and batchNumber on create, and supplier on
// replace.
func MedstoreProfile() Profile {
	documentedRequired := []string{"name", "category"}
	documentedOptional := []string{"manufacturer", "dosage", "price", "stock", "status"}
	potential := []string{"supplier", "batchNumber", "ndcCode", "storageTemperature", "controlledSubstance", "expiryDate"}

	return Profile{
		Configs: map[Method]FieldConfig{
			MethodPOST: FieldConfig{
				DocumentedRequired:    documentedRequired,
				DocumentedOptional:    documentedOptional,
				PotentialUndocumented: potential,
				ActualRequired:        []string{"name", "category", "supplier", "batchNumber"},
			}.Clone(),
			MethodPUT: FieldConfig{
				DocumentedRequired:    documentedRequired,
				DocumentedOptional:    documentedOptional,
				PotentialUndocumented: potential,
				ActualRequired:        []string{"name", "category", "supplier"},
			}.Clone(),
		},
		Samples: map[string]any{
			"name":                "Test Medicine",
			"category":            "Test Category",
			"manufacturer":        "Test Pharma",
			"dosage":              "500mg",
			"price":               29.99,
			"stock":               100,
			"status":              "available",
			"supplier":            "Test Supplier",
			"batchNumber":         "BATCH001",
			"ndcCode":             "0000-0000-00",
			"storageTemperature":  "2-8C",
			"controlledSubstance": false,
			"expiryDate":          "2026-12-31",
		},
	}
}
