package enums

import "fmt"

// MeasurementName identifies a body measurement captured in inches.
type MeasurementName string

const (
	MeasurementBust     MeasurementName = "bust"
	MeasurementWaist    MeasurementName = "waist"
	MeasurementHip      MeasurementName = "hip"
	MeasurementInseam   MeasurementName = "inseam"
	MeasurementShoulder MeasurementName = "shoulder"
	MeasurementSleeve   MeasurementName = "sleeve"
	MeasurementNeck     MeasurementName = "neck"
	MeasurementChest    MeasurementName = "chest"
	MeasurementArmhole  MeasurementName = "armhole"
	MeasurementWrist    MeasurementName = "wrist"
	MeasurementThigh    MeasurementName = "thigh"
	MeasurementKnee     MeasurementName = "knee"
	MeasurementAnkle    MeasurementName = "ankle"
	MeasurementOutseam  MeasurementName = "outseam"
)

var validMeasurementNames = []MeasurementName{
	MeasurementBust,
	MeasurementWaist,
	MeasurementHip,
	MeasurementInseam,
	MeasurementShoulder,
	MeasurementSleeve,
	MeasurementNeck,
	MeasurementChest,
	MeasurementArmhole,
	MeasurementWrist,
	MeasurementThigh,
	MeasurementKnee,
	MeasurementAnkle,
	MeasurementOutseam,
}

// MeasurementNames returns the full set in display order.
func MeasurementNames() []MeasurementName {
	out := make([]MeasurementName, len(validMeasurementNames))
	copy(out, validMeasurementNames)
	return out
}

// String implements fmt.Stringer.
func (m MeasurementName) String() string {
	return string(m)
}

// IsValid reports whether the value is a known MeasurementName.
func (m MeasurementName) IsValid() bool {
	for _, candidate := range validMeasurementNames {
		if candidate == m {
			return true
		}
	}
	return false
}

// ParseMeasurementName converts raw input into a MeasurementName.
func ParseMeasurementName(value string) (MeasurementName, error) {
	for _, candidate := range validMeasurementNames {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid measurement name %q", value)
}
