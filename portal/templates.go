package portal

import (
	"html/template"
	"net/http"

	"github.com/orioz-inc/member-portal/members"
)

// pageData is the single view-model every template renders from.
type pageData struct {
	Title   string
	User    *members.Profile
	Error   string
	Notice  string
	Form    map[string]string
	Profile *members.Profile
	Pending []members.Profile
}

func (s *Server) render(w http.ResponseWriter, name string, data pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		s.log.Error().Err(err).Str("template", name).Msg("template render")
	}
}

func parseTemplates() *template.Template {
	return template.Must(template.New("portal").Parse(portalTemplates))
}

const portalTemplates = `
{{define "header"}}
<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <title>{{.Title}} - ORIOZ Inc.</title>
</head>
<body>
<nav>
  <a href="/">Home</a>
  <a href="/about">About</a>
  <a href="/events">Events</a>
  <a href="/news">News</a>
  <a href="/contact">Contact</a>
  {{if .User}}
    <a href="/dashboard">Dashboard</a>
    <a href="/profile">Profile</a>
    <a href="/logout">Logout</a>
  {{else}}
    <a href="/login">Login</a>
    <a href="/register">Register</a>
  {{end}}
</nav>
{{if .Error}}<p class="error" role="alert">{{.Error}}</p>{{end}}
{{if .Notice}}<p class="notice" role="status">{{.Notice}}</p>{{end}}
{{end}}

{{define "footer"}}
<footer>
  <a href="/privacy-policy">Privacy Policy</a>
  <a href="/terms-of-service">Terms of Service</a>
</footer>
</body>
</html>
{{end}}

{{define "home"}}
{{template "header" .}}
<h1>Welcome to ORIOZ Inc.</h1>
<p>A community organization for our members. Browse upcoming events, read the
latest news, or sign in to your member dashboard.</p>
{{template "footer" .}}
{{end}}

{{define "about"}}
{{template "header" .}}
<h1>About Us</h1>
<p>ORIOZ Inc. is a community organization connecting members across the
region through events, news and volunteering.</p>
{{template "footer" .}}
{{end}}

{{define "events"}}
{{template "header" .}}
<h1>Events</h1>
<p>Upcoming community events are published here.</p>
{{template "footer" .}}
{{end}}

{{define "news"}}
{{template "header" .}}
<h1>News</h1>
<p>The latest announcements from the organization.</p>
{{template "footer" .}}
{{end}}

{{define "contact"}}
{{template "header" .}}
<h1>Contact Us</h1>
<p>Reach the committee at contact@orioz.example.org.</p>
{{template "footer" .}}
{{end}}

{{define "privacy"}}
{{template "header" .}}
<h1>Privacy Policy</h1>
<p>We only collect the information needed to run the membership register.</p>
{{template "footer" .}}
{{end}}

{{define "terms"}}
{{template "header" .}}
<h1>Terms of Service</h1>
<p>Membership is subject to approval by the committee.</p>
{{template "footer" .}}
{{end}}

{{define "login"}}
{{template "header" .}}
<h1>Welcome Back!</h1>
<form method="post" action="/login">
  <label for="email">Email Address</label>
  <input type="email" name="email" id="email" value="{{.Form.email}}" required>
  <label for="password">Password</label>
  <input type="password" name="password" id="password" required>
  <button type="submit">Login</button>
</form>
<p>Don't have an account? <a href="/register">Register here</a></p>
{{template "footer" .}}
{{end}}

{{define "register"}}
{{template "header" .}}
<h1>Become a Member</h1>
<form method="post" action="/register">
  <label for="name">Full Name</label>
  <input type="text" name="name" id="name" value="{{.Form.name}}" required>
  <label for="email">Email Address</label>
  <input type="email" name="email" id="email" value="{{.Form.email}}" required>
  <label for="password">Password</label>
  <input type="password" name="password" id="password" required>
  <label for="dateOfBirth">Date of Birth</label>
  <input type="date" name="dateOfBirth" id="dateOfBirth" value="{{.Form.dateOfBirth}}" required>
  <label for="state">State / Province</label>
  <input type="text" name="state" id="state" value="{{.Form.state}}">
  <button type="submit">Register</button>
</form>
{{template "footer" .}}
{{end}}

{{define "dashboard"}}
{{template "header" .}}
<h1>Member Dashboard</h1>
<p>Hello, {{if .User.Name}}{{.User.Name}}{{else}}{{.User.Email}}{{end}}.</p>
<ul>
  <li>Status: {{.User.Status}}</li>
  {{if .User.MemberSince}}<li>Member since: {{.User.MemberSince}}</li>{{end}}
</ul>
{{if .User.IsAdmin}}<p><a href="/admin/review">Review pending members</a></p>{{end}}
{{template "footer" .}}
{{end}}

{{define "profile"}}
{{template "header" .}}
<h1>My Profile</h1>
<form method="post" action="/profile">
  <label for="name">Full Name</label>
  <input type="text" name="name" id="name" value="{{.Profile.Name}}">
  <label for="state">State / Province</label>
  <input type="text" name="state" id="state" value="{{.Profile.State}}">
  <p>Email: {{.Profile.Email}}</p>
  <button type="submit">Save</button>
</form>
{{template "footer" .}}
{{end}}

{{define "admin_review"}}
{{template "header" .}}
<h1>Pending Registrations</h1>
{{if .Pending}}
<table>
  <tr><th>Name</th><th>Email</th><th>State</th><th></th></tr>
  {{range .Pending}}
  <tr>
    <td>{{.Name}}</td>
    <td>{{.Email}}</td>
    <td>{{.State}}</td>
    <td>
      <form method="post" action="/admin/members/{{.Email}}/confirm"><button type="submit">Approve</button></form>
      <form method="post" action="/admin/members/{{.Email}}/reject"><button type="submit">Reject</button></form>
    </td>
  </tr>
  {{end}}
</table>
{{else}}
<p>No registrations are waiting for review.</p>
{{end}}
{{template "footer" .}}
{{end}}
`
