package domain

type NotificationPriority string

const (
	NotificationPriorityLow    NotificationPriority = "low"
	NotificationPriorityMedium NotificationPriority = "medium"
	NotificationPriorityHigh   NotificationPriority = "high"
)

// NotificationMessage 是投递到消息队列中的通知，由 notifier worker 消费并发送邮件
type NotificationMessage struct {
	Type     string               `json:"type"`
	To       string               `json:"to"`
	Priority NotificationPriority `json:"priority"`
	Data     any                  `json:"data"`
}

type SubstitutionRequestedData struct {
	FullName            string `json:"fullName"`
	OriginalFacultyName string `json:"originalFacultyName"`
	Date                string `json:"date"`
	TimeSlot            string `json:"timeSlot"`
	Reason              string `json:"reason"`
}

type SubstitutionAssignedData struct {
	FullName            string `json:"fullName"`
	OriginalFacultyName string `json:"originalFacultyName"`
	Date                string `json:"date"`
	TimeSlot            string `json:"timeSlot"`
	Classroom           string `json:"classroom"`
}

type SubstitutionDecidedData struct {
	FullName            string `json:"fullName"`
	OriginalFacultyName string `json:"originalFacultyName"`
	Date                string `json:"date"`
	TimeSlot            string `json:"timeSlot"`
	Outcome             string `json:"outcome"`
}

type CreateUserNotificationData struct {
	FullName string `json:"fullName"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type ResetPasswordNotificationData struct {
	FullName   string `json:"fullName"`
	OTP        string `json:"otp"`
	Expiration int    `json:"expiration"`
}

type ChangeEmailNotificationData struct {
	FullName   string `json:"fullName"`
	OTP        string `json:"otp"`
	Expiration int    `json:"expiration"`
}

// RequestNotifications 构造新代课申请的通知：所有管理员各收一封，
// 申请时已填写了拟代课教师的，同步以高优先级知会该教师
func RequestNotifications(sub *Substitution, original *User, substitute *User, admins []*User) []NotificationMessage {
	msgs := make([]NotificationMessage, 0, len(admins)+1)

	for _, admin := range admins {
		msgs = append(msgs, NotificationMessage{
			Type:     "substitution_requested",
			To:       admin.Email,
			Priority: NotificationPriorityMedium,
			Data: SubstitutionRequestedData{
				FullName:            admin.FullName,
				OriginalFacultyName: original.FullName,
				Date:                sub.Date.Format("2006-01-02"),
				TimeSlot:            sub.TimeSlot,
				Reason:              sub.Reason,
			},
		})
	}

	if substitute != nil {
		msgs = append(msgs, NotificationMessage{
			Type:     "substitution_assigned",
			To:       substitute.Email,
			Priority: NotificationPriorityHigh,
			Data: SubstitutionAssignedData{
				FullName:            substitute.FullName,
				OriginalFacultyName: original.FullName,
				Date:                sub.Date.Format("2006-01-02"),
				TimeSlot:            sub.TimeSlot,
				Classroom:           sub.Classroom,
			},
		})
	}

	return msgs
}

// DecisionNotifications 构造代课申请处理结果的通知，申请人和所有管理员各收一封
func DecisionNotifications(sub *Substitution, original *User, admins []*User, outcome string) []NotificationMessage {
	msgs := make([]NotificationMessage, 0, len(admins)+1)

	recipients := append([]*User{original}, admins...)
	for _, recipient := range recipients {
		msgs = append(msgs, NotificationMessage{
			Type:     "substitution_decided",
			To:       recipient.Email,
			Priority: NotificationPriorityMedium,
			Data: SubstitutionDecidedData{
				FullName:            recipient.FullName,
				OriginalFacultyName: original.FullName,
				Date:                sub.Date.Format("2006-01-02"),
				TimeSlot:            sub.TimeSlot,
				Outcome:             outcome,
			},
		})
	}

	return msgs
}
