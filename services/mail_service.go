package services

import (
	"fmt"
	"strings"

	"fiber-erp/config"

	"github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"
)

// NotifyQcRejection mails the QC alert list when an entry rejects items.
// Controllers call it in a goroutine; a mail failure never fails the
// workflow, it only logs.
func NotifyQcRejection(qcNo string, itemCodes []string, remarks string) {
	if config.SMTPHost == "" || len(config.QcAlertEmails) == 0 {
		return
	}

	body := fmt.Sprintf(
		"QC entry %s rejected the following items:\n\n%s\n\nRemarks: %s\n",
		qcNo, strings.Join(itemCodes, "\n"), remarks)

	msg := gomail.NewMessage()
	msg.SetHeader("From", config.SMTPSender)
	msg.SetHeader("To", config.QcAlertEmails...)
	msg.SetHeader("Subject", fmt.Sprintf("[QC REJECTED] %s", qcNo))
	msg.SetBody("text/plain", body)

	dialer := gomail.NewDialer(config.SMTPHost, config.SMTPPort, config.SMTPUser, config.SMTPPassword)
	if err := dialer.DialAndSend(msg); err != nil {
		logrus.WithError(err).WithField("qc_no", qcNo).Error("failed to send QC rejection mail")
	}
}
