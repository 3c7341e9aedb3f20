package normalizer

// ComponentPair is a (component, sub-component) key after accent folding
type ComponentPair struct {
	Component    string
	Subcomponent string
}

// Rules is the read-only configuration of the normalizer
type Rules struct {
	// Compatibility translates folded source pairs to canonical pairs
	Compatibility map[ComponentPair]ComponentPair
	// ModelAliases collapses model variants, e.g. 960E-1 -> 960E
	ModelAliases map[string]string
	// EquipmentPrefixes maps a canonical model to its equipment prefix
	EquipmentPrefixes map[string]string
	DefaultPrefix     string
	// EquipmentDigits is the zero-padded width of the equipment number
	EquipmentDigits int
}

// DefaultRules returns the mapping used by the fleet's source spreadsheets
func DefaultRules() Rules {
	return Rules{
		Compatibility: map[ComponentPair]ComponentPair{
			{"motor_de_traccion", ""}:          {"motor_traccion", ""},
			{"mdp", ""}:                        {"modulo_potencia", ""},
			{"modulo_de_potencia", ""}:         {"modulo_potencia", ""},
			{"alternador_principal", ""}:       {"modulo_potencia", "alternador_principal"},
			{"radiador", ""}:                   {"modulo_potencia", "radiador"},
			{"suspension_delantera", ""}:       {"conjunto_masa_suspension", "suspension_delantera"},
			{"masa", ""}:                       {"conjunto_masa_suspension", "masa"},
			{"cms", ""}:                        {"conjunto_masa_suspension", ""},
			{"suspension_posterior", ""}:       {"suspension_trasera", ""},
			{"cilindro_de_levante", ""}:        {"cilindro_levante", ""},
			{"cilindro_de_direccion", ""}:      {"cilindro_direccion", ""},
			{"blower_parrilla", ""}:            {"blower", ""},
			{"modulo_potencia", "alternador"}:  {"modulo_potencia", "alternador_principal"},
			{"modulo_potencia", "radiador_mp"}: {"modulo_potencia", "radiador"},
		},
		ModelAliases: map[string]string{
			"960E-1": "960E",
			"960E-2": "960E",
		},
		EquipmentPrefixes: map[string]string{
			"960E":   "TK",
			"930E":   "TK",
			"980E":   "TK",
			"PC5500": "CEX",
			"PC7000": "CEX",
			"PC8000": "CEX",
		},
		DefaultPrefix:   "TK",
		EquipmentDigits: 3,
	}
}
