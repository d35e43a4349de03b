package settings

// commonDefaults apply to every kind that drives the export protocol.
var commonDefaults = Record{
	FieldComparisonValue:        "0",
	FieldStringVerticalSpacing:  "0",
	FieldStringPassthroughCheck: true,
}

var kindDefaults = map[ActionKind]Record{
	KindSwitch: {
		FieldFirstStateValue:  "1",
		FieldSecondStateValue: "-1",
	},
	KindIncrementing: {
		FieldIncrementValue:        "0.1",
		FieldIncrementMin:          "0",
		FieldIncrementMax:          "1",
		FieldIncrementCycleAllowed: false,
	},
	KindMomentary: {
		FieldPressValue:          "1",
		FieldReleaseValue:        "0",
		FieldDisableReleaseCheck: false,
	},
}

// Defaults returns the full default table for kind.
// Passthrough and undetermined kinds have no defaults.
func Defaults(kind ActionKind) Record {
	table, ok := kindDefaults[kind]
	if !ok {
		return Record{}
	}
	out := table.Clone()
	for k, v := range commonDefaults {
		out[k] = v
	}
	return out
}

// MissingDefaults returns the defaults for kind whose fields are absent
// from current. An empty result means nothing needs writing.
func MissingDefaults(kind ActionKind, current Record) Record {
	missing := Record{}
	for field, v := range Defaults(kind) {
		if !current.Has(field) {
			missing[field] = v
		}
	}
	return missing
}

// ApplyDefaults returns current with the defaults for kind filled into
// absent fields. Present values, including false and 0, are never
// overwritten, so applying twice yields the same record as applying once.
func ApplyDefaults(kind ActionKind, current Record) Record {
	return current.Merge(MissingDefaults(kind, current))
}
