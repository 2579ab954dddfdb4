package ftypes

type GarageID uint32

func (g GarageID) Value() uint32 {
	return uint32(g)
}

type ColumnName string
type Timestamp uint64
type RequestID string

type ModelKind string
type ModelName string
type ModelVersion string
