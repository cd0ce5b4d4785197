package apierrors

const (
	MsgInvalidPayload      = "invalidWorkItemPayload"
	MsgInternalError       = "internalError"
	MsgWorkItemCreated     = "workItemCreated"
	MsgWorkItemUpdated     = "workItemUpdated"
	MsgWorkItemDeleted     = "workItemDeleted"
	MsgWorkItemObliterated = "workItemPermanentlyDeleted"
	MsgWorkItemRestored    = "workItemRestored"
	MsgWorkItemsUpdated    = "workItemsBulkUpdated"
)
