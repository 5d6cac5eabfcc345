package services

import "goerp/internal/domain"

// Built-in, non-editable templates used when a category has no active stored
// template. Content mirrors the default seeded templates shipped with the
// admin UI.
var builtinTemplates = map[string]*domain.EmailTemplate{
	domain.CategoryWelcome: {
		Name:         "Built-in Welcome Email",
		Subject:      "Welcome to {{company_name}}!",
		TemplateType: domain.TemplateTypeWidgets,
		Content: `@include('beautymail::templates.widgets.articleStart')

    <h4 class="secondary"><strong>Welcome to {{company_name}}!</strong></h4>
    <p>Hello {{user_name}},</p>
    <p>We're thrilled to have you on board! Your account has been successfully created and you can now access all the features of our ERP system.</p>
    <ul>
        <li><strong>Dashboard:</strong> <a href="{{login_url}}">Access your dashboard</a></li>
        <li><strong>Profile:</strong> Complete your profile information</li>
        <li><strong>Support:</strong> Contact our support team if you need help</li>
    </ul>
    <p>Best regards,<br>The {{company_name}} Team</p>

@include('beautymail::templates.widgets.articleEnd')`,
		Variables: []string{"user_name", "company_name", "login_url"},
		Category:  domain.CategoryWelcome,
		IsActive:  true,
	},
	domain.CategoryPassword: {
		Name:         "Built-in Password Reset Email",
		Subject:      "Password Reset Request - {{company_name}}",
		TemplateType: domain.TemplateTypeMinty,
		Content: `@include('beautymail::templates.minty.contentStart')
    <tr>
        <td class="title">Password Reset Request</td>
    </tr>
    <tr>
        <td class="paragraph">
            Hello {{user_name}},
        </td>
    </tr>
    <tr>
        <td class="paragraph">
            We received a request to reset your password for your {{company_name}} account.
        </td>
    </tr>
    <tr>
        <td>
            @include('beautymail::templates.minty.button', ['text' => 'Reset Password', 'link' => '{{reset_url}}'])
        </td>
    </tr>
    <tr>
        <td class="paragraph">
            This link will expire in {{expires_in}} minutes. If you didn't request this password reset, please ignore this email.
        </td>
    </tr>
@include('beautymail::templates.minty.contentEnd')`,
		Variables: []string{"user_name", "company_name", "reset_url", "expires_in"},
		Category:  domain.CategoryPassword,
		IsActive:  true,
	},
	domain.CategoryNotification: {
		Name:         "Built-in Notification Email",
		Subject:      "{{notification_title}} - {{company_name}}",
		TemplateType: domain.TemplateTypeArk,
		Content: `@include('beautymail::templates.ark.heading', ['heading' => '{{notification_title}}', 'level' => 'h1'])

@include('beautymail::templates.ark.contentStart')
    <h4 class="secondary"><strong>Hello {{user_name}}</strong></h4>
    <p>{{notification_message}}</p>

    <div class="info-box">
        <p>{{additional_info}}</p>
    </div>
@include('beautymail::templates.ark.contentEnd')`,
		Variables: []string{"user_name", "company_name", "notification_title", "notification_message", "additional_info"},
		Category:  domain.CategoryNotification,
		IsActive:  true,
	},
}

// builtinTemplate returns the built-in fallback template for the category,
// or false when the category has none.
func builtinTemplate(category string) (*domain.EmailTemplate, bool) {
	t, ok := builtinTemplates[category]
	return t, ok
}
