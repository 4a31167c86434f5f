package accessadmin

// entryPayload is one access entry of a binding request or response.
type entryPayload struct {
	AccessType string `json:"accessType" validate:"required,oneof=tasks task_access_management timesheets own_timesheets"`
	Select     bool   `json:"select"`
	Insert     bool   `json:"insert"`
	Update     bool   `json:"update"`
	Delete     bool   `json:"delete"`
}

// bindingPayload is the request body for creating or updating a binding.
// Either a template name or explicit entries may be given; a template is
// applied first, explicit entries override it.
type bindingPayload struct {
	GroupID     uint           `json:"groupId" validate:"required"`
	TaskID      uint64         `json:"taskId" validate:"required"`
	Recursive   *bool          `json:"recursive"`
	Description string         `json:"description" validate:"max=1000"`
	Template    string         `json:"template" validate:"omitempty,oneof=clear guest employee leader administrator"`
	Entries     []entryPayload `json:"entries" validate:"dive"`
}

// bindingResponse is the JSON shape of a binding in responses.
type bindingResponse struct {
	ID          uint64         `json:"id"`
	GroupID     uint           `json:"groupId"`
	TaskID      uint64         `json:"taskId"`
	Recursive   bool           `json:"recursive"`
	Description string         `json:"description"`
	Deleted     bool           `json:"deleted"`
	Entries     []entryPayload `json:"entries"`
}

// checkResponse is the JSON shape of a soft permission check.
type checkResponse struct {
	UserID     uint64 `json:"userId"`
	TaskID     uint64 `json:"taskId"`
	AccessType string `json:"accessType"`
	Operation  string `json:"operation"`
	Granted    bool   `json:"granted"`
}
