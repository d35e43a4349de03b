package settings

// Per-instance field names.
const (
	FieldButtonID    = "button_id"
	FieldDeviceID    = "device_id"
	FieldSendAddress = "send_address"

	FieldPressValue          = "press_value"
	FieldReleaseValue        = "release_value"
	FieldDisableReleaseCheck = "disable_release_check"

	FieldFirstStateValue  = "send_when_first_state_value"
	FieldSecondStateValue = "send_when_second_state_value"

	FieldIncrementMonitor      = "dcs_id_increment_monitor"
	FieldIncrementValue        = "increment_value"
	FieldIncrementMin          = "increment_min"
	FieldIncrementMax          = "increment_max"
	FieldIncrementCycleAllowed = "increment_cycle_allowed_check"
	FieldIncrementCW           = "increment_cw"
	FieldIncrementCCW          = "increment_ccw"

	FieldCompareMonitor   = "dcs_id_compare_monitor"
	FieldCompareCondition = "dcs_id_compare_condition"
	FieldComparisonValue  = "dcs_id_comparison_value"

	FieldStringMonitor          = "dcs_id_string_monitor"
	FieldStringVerticalSpacing  = "string_monitor_vertical_spacing"
	FieldStringPassthroughCheck = "string_monitor_passthrough_check"
	FieldStringMonitorMapping   = "string_monitor_mapping"

	FieldEncoderPressValue       = "encoder_press_value"
	FieldEncoderValueTextMapping = "encoder_value_text_mapping"
)

// Global-settings field names.
const (
	GlobalIPAddress       = "ip_address"
	GlobalListenerPort    = "listener_port"
	GlobalSendPort        = "send_port"
	GlobalInstallPath     = "dcs_install_path"
	GlobalSavedGamesPath  = "dcs_savedgames_path"
	GlobalLastModule      = "last_selected_module"
	GlobalLastSearchQuery = "last_search_query"
)
