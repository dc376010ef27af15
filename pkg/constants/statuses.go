package constants

// Статусы утверждения, общие для MRF и заявок по сотрудникам, складу и заказам.
const (
	StatusPending  = "PENDING"
	StatusApproved = "APPROVED"
	StatusRejected = "REJECTED"
)

const (
	InventoryRequestCreate = "CREATE"
	InventoryRequestUpdate = "UPDATE"
	InventoryRequestDelete = "DELETE"
)

const (
	CashFlowInflow  = "INFLOW"
	CashFlowOutflow = "OUTFLOW"
)

// ProjectStageOrder ставится проекту после утверждения одного из его заказов.
const ProjectStageOrder = "ORDER_STAGE"

const DefaultSupplierName = "Default Supplier"
