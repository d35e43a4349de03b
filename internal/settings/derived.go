package settings

// ComputeDerived returns the partial record implied by writing value to
// field. Writing either half of the device/button pair recomputes
// send_address as "device_id,button_id" once both halves are non-empty.
// The result always contains the original write.
func ComputeDerived(field string, value any, current Record) Record {
	partial := Record{field: value}
	if field != FieldButtonID && field != FieldDeviceID {
		return partial
	}

	next := current.Merge(partial)
	if addr, ok := SendAddress(next.String(FieldDeviceID), next.String(FieldButtonID)); ok {
		partial[FieldSendAddress] = addr
	}
	return partial
}

// SendAddress builds the composite "device,button" address. ok is false
// when either half is empty.
func SendAddress(deviceID, buttonID string) (addr string, ok bool) {
	if deviceID == "" || buttonID == "" {
		return "", false
	}
	return deviceID + "," + buttonID, true
}
