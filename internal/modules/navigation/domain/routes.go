package domain

const (
	RouteHome                RouteName = "Home"
	RouteSearch              RouteName = "Search"
	RouteHotelDetail         RouteName = "HotelDetail"
	RouteReservationDetail   RouteName = "ReservationDetail"
	RouteReservationCheckout RouteName = "ReservationCheckout"
	RouteReservationResult   RouteName = "ReservationResult"
	RoutePaymentCheckout     RouteName = "PaymentCheckout"
	RoutePaymentSuccess      RouteName = "PaymentSuccess"
	RoutePaymentFailure      RouteName = "PaymentFailure"
	RouteMyPage              RouteName = "MyPage"
	RouteSupport             RouteName = "Support"
	RouteLogin               RouteName = "Login"
	RouteRegister            RouteName = "Register"
	RouteTerms               RouteName = "Terms"
	RoutePrivacy             RouteName = "Privacy"
	RouteLoginVerify         RouteName = "LoginVerify"
	RouteOAuth2Redirect      RouteName = "OAuth2Redirect"
	RouteForgotPassword      RouteName = "ForgotPassword"
	RoutePasswordReset       RouteName = "PasswordReset"
)

// HotelRoutes lists the hotel booking pages in declaration order.
func HotelRoutes() []Route {
	return []Route{
		{Path: "/", Name: RouteHome, Component: "HomeView"},
		{Path: "/search", Name: RouteSearch, Component: "SearchView"},
		{Path: "/hotels/:id", Name: RouteHotelDetail, Component: "HotelDetailView", Props: true},
		{Path: "/hotels", Redirect: "/hotels/1"},
		{Path: "/reservations/:id", Name: RouteReservationDetail, Component: "ReservationDetailView", Props: true},
		{Path: "/reservations/:id/checkout", Name: RouteReservationCheckout, Component: "ReservationCheckoutView", Props: true},
		{Path: "/reservations/:id/result", Name: RouteReservationResult, Component: "ReservationResultView", Props: true},
		{Path: "/payments/:id", Name: RoutePaymentCheckout, Component: "PaymentCheckoutView", Props: true},
		{Path: "/payment/success", Name: RoutePaymentSuccess, Component: "PaymentSuccessView"},
		{Path: "/payment/fail", Name: RoutePaymentFailure, Component: "PaymentFailureView"},
		{Path: "/mypage", Name: RouteMyPage, Component: "MyPageView"},
		{Path: "/support", Name: RouteSupport, Component: "SupportView"},
		{Path: "/login", Name: RouteLogin, Component: "LoginView"},
		{Path: "/register", Name: RouteRegister, Component: "RegisterView"},
		{Path: "/terms", Name: RouteTerms, Component: "TermsView"},
		{Path: "/privacy", Name: RoutePrivacy, Component: "PrivacyView"},
		{Path: "/verify", Name: RouteLoginVerify, Component: "LoginVerifyView"},
		{Path: "/oauth2/redirect", Name: RouteOAuth2Redirect, Component: "OAuth2RedirectView"},
		{Path: "/forgot-password", Name: RouteForgotPassword, Component: "ForgotPasswordView", Aliases: []string{"/forgotPassword"}},
		{Path: "/password-reset", Name: RoutePasswordReset, Component: "PasswordResetView", Aliases: []string{"/passwordReset"}},
		{Path: CatchAllPath, Redirect: "/"},
	}
}

// DefaultTable compiles HotelRoutes. It panics only if the built-in routes are malformed.
func DefaultTable() *Table {
	table, err := NewTable(HotelRoutes())
	if err != nil {
		panic(err)
	}
	return table
}
