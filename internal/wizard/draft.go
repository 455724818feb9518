package wizard

// Draft is the in-progress booking. It is stored as one flat JSON record per session.
type Draft struct {
	Type            Path   `json:"type,omitempty" dynamodbav:"type,omitempty"`
	FullName        string `json:"fullName" dynamodbav:"fullName"`
	Email           string `json:"email" dynamodbav:"email"`
	Phone           string `json:"phone" dynamodbav:"phone"`
	PhoneRegion     string `json:"phoneRegion" dynamodbav:"phoneRegion"`
	Gender          string `json:"gender" dynamodbav:"gender"`
	Message         string `json:"message" dynamodbav:"message"`
	ServiceID       string `json:"service_id" dynamodbav:"service_id"`
	DoctorID        string `json:"doctor_id" dynamodbav:"doctor_id"`
	PreferredDate   string `json:"preferred_date" dynamodbav:"preferred_date"`
	PreferredTime   string `json:"preferred_time" dynamodbav:"preferred_time"`
	PreferredSlotID string `json:"preferred_slot_id" dynamodbav:"preferred_slot_id"`
	Schedule        string `json:"schedule" dynamodbav:"schedule"`
}

// HasData reports whether leaving the wizard would discard anything the user entered.
func (d Draft) HasData() bool {
	for _, v := range []string{
		string(d.Type), d.FullName, d.Email, d.Phone, d.Message,
		d.ServiceID, d.DoctorID, d.PreferredDate, d.PreferredSlotID,
	} {
		if v != "" {
			return true
		}
	}
	return false
}

// clearSlot drops the date/time selection.
func (d *Draft) clearSlot() {
	d.PreferredDate = ""
	d.clearSlotChoice()
}

func (d *Draft) clearSlotChoice() {
	d.PreferredTime = ""
	d.PreferredSlotID = ""
	d.Schedule = ""
}
