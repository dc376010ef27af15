package constants

type POStatus string

const (
	POCreated          POStatus = "CREATED"
	POSentToSupplier   POStatus = "SENT_TO_SUPPLIER"
	POSupplierAccepted POStatus = "SUPPLIER_ACCEPTED"
	POSupplierRejected POStatus = "SUPPLIER_REJECTED"
	POInProduction     POStatus = "IN_PRODUCTION"
	POShipped          POStatus = "SHIPPED"
	PODelivered        POStatus = "DELIVERED"
	POCompleted        POStatus = "COMPLETED"
	POCancelled        POStatus = "CANCELLED"
)

// POStatuses - все статусы в порядке жизненного цикла.
var POStatuses = []POStatus{
	POCreated, POSentToSupplier, POSupplierAccepted, POSupplierRejected,
	POInProduction, POShipped, PODelivered, POCompleted, POCancelled,
}

var poDisplayNames = map[POStatus]string{
	POCreated:          "PO Created",
	POSentToSupplier:   "Sent to Supplier",
	POSupplierAccepted: "Supplier Accepted",
	POSupplierRejected: "Supplier Rejected",
	POInProduction:     "In Production",
	POShipped:          "Shipped",
	PODelivered:        "Delivered",
	POCompleted:        "Completed",
	POCancelled:        "Cancelled",
}

func (s POStatus) IsValid() bool {
	_, ok := poDisplayNames[s]
	return ok
}

func (s POStatus) DisplayName() string {
	return poDisplayNames[s]
}
