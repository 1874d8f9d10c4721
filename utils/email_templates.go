package utils

import "fmt"

// AdminOTPEmail renders the admin login code email.
func AdminOTPEmail(code string, minutes int) (subject, text, html string) {
	subject = fmt.Sprintf("Your Admin OTP: %s", code)
	text = fmt.Sprintf("Your OTP code is %s. It expires in %d minutes.", code, minutes)
	html = fmt.Sprintf(`
    <div style="font-family: Arial, sans-serif; max-width: 480px; margin: 0 auto;">
      <h2 style="color:#222;">Himashi Properties Admin Login</h2>
      <p>Your OTP code is:</p>
      <div style="font-size: 24px; font-weight: bold; letter-spacing: 2px;">%s</div>
      <p style="color:#555;">This code expires in %d minutes.</p>
    </div>`, code, minutes)
	return subject, text, html
}

// UserOTPEmail renders the user signup/login code email. purpose is "signup"
// or "login".
func UserOTPEmail(code string, minutes int, purpose string) (subject, text, html string) {
	subject = fmt.Sprintf("Your OTP: %s", code)
	text = fmt.Sprintf("Your OTP code for %s is %s. It expires in %d minutes.", purpose, code, minutes)
	html = fmt.Sprintf(`
    <div style="font-family: Arial, sans-serif; max-width: 480px; margin: 0 auto;">
      <h2 style="color:#222;">Himashi Properties</h2>
      <p>Your OTP code for %s is:</p>
      <div style="font-size: 24px; font-weight: bold; letter-spacing: 2px;">%s</div>
      <p style="color:#555;">This code expires in %d minutes.</p>
    </div>`, purpose, code, minutes)
	return subject, text, html
}
