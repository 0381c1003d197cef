package services

import "vehicle-auction/inventory/internal/models/dtos"

// Quality rejection reasons, reported in debug logs and tests
const (
	RejectMissingVIN         = "missing_vin"
	RejectSalvage            = "salvage"
	RejectOdometerCheck      = "odometer_check_failed"
	RejectTitleCheck         = "title_check_failed"
	RejectAsIs               = "as_is"
	RejectFrameDamage        = "frame_damage"
	RejectPreviouslyCanadian = "previously_canadian"
)

// QualityRejectReason returns "" when raw passes every quality predicate,
// otherwise the first failing predicate. Missing flags count as passing.
func QualityRejectReason(raw dtos.RawListing) string {
	switch {
	case raw.VIN == "":
		return RejectMissingVIN
	case raw.SalvageVehicle.IsTrue() || raw.Salvage.IsTrue():
		return RejectSalvage
	case raw.OdometerCheckOK.IsFalse():
		return RejectOdometerCheck
	case raw.TitleAndProblemCheckOK.IsFalse():
		return RejectTitleCheck
	case raw.AsIs.IsTrue():
		return RejectAsIs
	case raw.HasFrameDamage.IsTrue():
		return RejectFrameDamage
	case raw.PreviouslyCanadianListing.IsTrue():
		return RejectPreviouslyCanadian
	}
	return ""
}

// PassesQualityFilter reports whether raw may be normalized and stored
func PassesQualityFilter(raw dtos.RawListing) bool {
	return QualityRejectReason(raw) == ""
}
