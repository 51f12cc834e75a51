package pdf

// termsBlock is one paragraph of the terms page. Headings render bold.
type termsBlock struct {
	Text    string
	Heading bool
}

var rentalTerms = []termsBlock{
	{Text: "This Agreement outlines the terms for vehicle rental from Drive KL Executive Sdn Bhd. By signing, the Renter agrees to these clauses. Breaches may lead to penalties, deposit forfeiture, agreement termination, and legal action."},

	{Text: "1. RENTAL PERIOD AND VEHICLE USAGE", Heading: true},
	{Text: "1.1. Genting Highland Usage Fee: An additional surcharge (RM150-RM350, vehicle-dependent) applies for Genting Highlands travel. Declare and settle this fee with Drive KL Executive Sdn Bhd before departure."},
	{Text: "1.2. Early Termination of Rental: No refunds or partial refunds are provided for early returns. The Renter must honor the original booking duration."},
	{Text: "1.3. Late Return Penalty: Vehicles returned late incur a RM 25-300 per hour penalty, unless Drive KL Executive Sdn Bhd provides prior written agreement."},
	{Text: "1.4. Mileage Limits & Charges: Exceeding any daily mileage cap results in an overage charge (RM1.50-RM5.00/km), payable to Drive KL Executive Sdn Bhd."},
	{Text: "1.5. Fuel Level Requirement: Return vehicles with the same fuel level as received. Drive KL Executive Sdn Bhd will impose a RM50-RM200 refueling charge if not met."},

	{Text: "2. DRIVER AUTHORIZATION & RESPONSIBILITIES", Heading: true},
	{Text: "2.1. Unregistered Drivers Prohibited: Only authorized individuals listed in this Agreement may drive the vehicle. Any unregistered driver voids this Agreement and forfeits the full deposit to Drive KL Executive Sdn Bhd."},
	{Text: "2.2. Traffic Violations & Summons: The Renter is solely responsible for all traffic fines, parking summons, and toll charges incurred during the rental period. Outstanding penalties will be deducted from the deposit by Drive KL Executive Sdn Bhd."},

	{Text: "3. VEHICLE CARE AND PROHIBITED ACTIONS", Heading: true},
	{Text: "3.1. Unauthorized Workshop Visits: Renters are strictly prohibited from sending the vehicle to any external workshop. Violations result in immediate agreement termination by Drive KL Executive Sdn Bhd and full deposit forfeiture. All repairs must be coordinated with Drive KL Executive Sdn Bhd."},
	{Text: "3.2. Vehicle Misuse & Reckless Behavior: Vehicle abuse (e.g., drifting, burnouts, unauthorized decals/stickers, aggressive revving, off-road use, redlining while idle) is strictly forbidden. This results in full deposit forfeiture to Drive KL Executive Sdn Bhd and potential legal action."},
	{Text: "3.3. Speed Limit Violations: Speeding is monitored via GPS/dash cam. A first offense results in a written warning from Drive KL Executive Sdn Bhd. A second offense leads to immediate rental termination and full deposit forfeiture, with no exceptions."},
	{Text: "3.4. Smoking & Vaping Strictly Prohibited: A RM300 cleaning fee will be charged by Drive KL Executive Sdn Bhd if the interior smells of smoke, vape, or strong odors."},

	{Text: "4. INSURANCE COVERAGE AND DAMAGES", Heading: true},
	{Text: "All rental vehicles are covered by comprehensive insurance. However, the Renter is responsible for the first RM2,000-RM5,000 of any damage claim, depending on the vehicle category. This excess amount will be deducted from the deposit."},

	{Text: "By signing below, the Renter acknowledges reading, understanding, and agreeing to all terms and conditions outlined in this Agreement."},
}
