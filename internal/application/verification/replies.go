package verification

import "fmt"

func (s *service) replyStart() string {
	return fmt.Sprintf("Hello! To get access to %s, enter your corporate email.\nAllowed domains: %s",
		s.resourceName, s.policy)
}

func replyNotStarted() string { return "Send /start to begin." }

func (s *service) replyRejected() string {
	return fmt.Sprintf("Only corporate emails can be used: %s", s.policy)
}

func (s *service) replyCodeSent(email string) string {
	return fmt.Sprintf("A verification code was sent to %s. If there is no email, check your spam folder.\n"+
		"The code is valid for %d minutes.", email, int(s.codeTTL.Minutes()))
}

func (s *service) replyMailFailed(err error) string {
	return fmt.Sprintf("Failed to send the email: %v\nTo get access to %s, contact %s.",
		err, s.resourceName, s.escalationContact)
}

func replyExpired() string {
	return "The code has expired. Please enter your email again to get a new code."
}

func (s *service) replyConfirmed() string {
	return fmt.Sprintf("Code confirmed! Here is your personal link to join %s:", s.resourceName)
}

func (s *service) replyGrantFailed(err error) string {
	return fmt.Sprintf("Failed to create the access link: %v\nTo get access to %s, contact %s.",
		err, s.resourceName, s.escalationContact)
}

func replyWrongCode() string { return "Incorrect code. Please try again." }

func (s *service) replyAlreadyVerified() string {
	return fmt.Sprintf("You are already verified. Use your link to join %s.", s.resourceName)
}

func codeEmail(code string) (subject, body string) {
	return "Access verification code", "Your verification code for access: " + code
}
