package shared

import "yacht_automate/internal/domain"

// DemoFleet is the inventory seeded for new tenants: 20 Mediterranean,
// 10 Caribbean and 10 Bahamas yachts. TenantID and ID are filled at insert time.
var DemoFleet = []domain.Yacht{
	{Name: "AQUA LIBRA", Builder: "Benetti", Type: "Motor Yacht", LengthM: 73, Region: domain.RegionMediterranean, Cabins: 6, Guests: 12, WeeklyRate: 195000, Currency: "EUR"},
	{Name: "SPECTRE", Builder: "Sunseeker", Type: "Motor Yacht", LengthM: 69, Region: domain.RegionMediterranean, Cabins: 5, Guests: 10, WeeklyRate: 175000, Currency: "EUR"},
	{Name: "SERENITY", Builder: "Sanlorenzo", Type: "Motor Yacht", LengthM: 64, Region: domain.RegionMediterranean, Cabins: 5, Guests: 10, WeeklyRate: 165000, Currency: "EUR"},
	{Name: "PHOENIX", Builder: "Lurssen", Type: "Motor Yacht", LengthM: 90, Region: domain.RegionMediterranean, Cabins: 8, Guests: 16, WeeklyRate: 350000, Currency: "EUR"},
	{Name: "MYSTIC", Builder: "Heesen", Type: "Motor Yacht", LengthM: 55, Region: domain.RegionMediterranean, Cabins: 4, Guests: 8, WeeklyRate: 125000, Currency: "EUR"},
	{Name: "BLUE MOON", Builder: "Feadship", Type: "Motor Yacht", LengthM: 67, Region: domain.RegionMediterranean, Cabins: 5, Guests: 10, WeeklyRate: 185000, Currency: "EUR"},
	{Name: "AZURE", Builder: "Azimut", Type: "Motor Yacht", LengthM: 35, Region: domain.RegionMediterranean, Cabins: 3, Guests: 6, WeeklyRate: 45000, Currency: "EUR"},
	{Name: "DREAM WEAVER", Builder: "Perini Navi", Type: "Sailing Yacht", LengthM: 60, Region: domain.RegionMediterranean, Cabins: 4, Guests: 8, WeeklyRate: 95000, Currency: "EUR"},
	{Name: "SEAHAWK", Builder: "Ferretti", Type: "Motor Yacht", LengthM: 28, Region: domain.RegionMediterranean, Cabins: 3, Guests: 6, WeeklyRate: 35000, Currency: "EUR"},
	{Name: "WIND SPIRIT", Builder: "Wally", Type: "Sailing Yacht", LengthM: 48, Region: domain.RegionMediterranean, Cabins: 3, Guests: 6, WeeklyRate: 65000, Currency: "EUR"},
	{Name: "CRYSTAL CLEAR", Builder: "Princess", Type: "Motor Yacht", LengthM: 32, Region: domain.RegionMediterranean, Cabins: 3, Guests: 6, WeeklyRate: 42000, Currency: "EUR"},
	{Name: "ARTEMIS", Builder: "Oceanco", Type: "Motor Yacht", LengthM: 85, Region: domain.RegionMediterranean, Cabins: 7, Guests: 14, WeeklyRate: 295000, Currency: "EUR"},
	{Name: "MIRAGE", Builder: "Riva", Type: "Motor Yacht", LengthM: 30, Region: domain.RegionMediterranean, Cabins: 2, Guests: 4, WeeklyRate: 38000, Currency: "EUR"},
	{Name: "ODYSSEY", Builder: "Baglietto", Type: "Motor Yacht", LengthM: 52, Region: domain.RegionMediterranean, Cabins: 4, Guests: 8, WeeklyRate: 98000, Currency: "EUR"},
	{Name: "SOLARIS", Builder: "Amels", Type: "Motor Yacht", LengthM: 78, Region: domain.RegionMediterranean, Cabins: 6, Guests: 12, WeeklyRate: 225000, Currency: "EUR"},
	{Name: "TEMPEST", Builder: "CRN", Type: "Motor Yacht", LengthM: 61, Region: domain.RegionMediterranean, Cabins: 5, Guests: 10, WeeklyRate: 145000, Currency: "EUR"},
	{Name: "ZEPHYR", Builder: "Baltic", Type: "Sailing Yacht", LengthM: 54, Region: domain.RegionMediterranean, Cabins: 4, Guests: 8, WeeklyRate: 75000, Currency: "EUR"},
	{Name: "INFINITY", Builder: "Mangusta", Type: "Motor Yacht", LengthM: 39, Region: domain.RegionMediterranean, Cabins: 3, Guests: 6, WeeklyRate: 55000, Currency: "EUR"},
	{Name: "HARMONY", Builder: "Pershing", Type: "Motor Yacht", LengthM: 26, Region: domain.RegionMediterranean, Cabins: 2, Guests: 4, WeeklyRate: 28000, Currency: "EUR"},
	{Name: "ELYSIUM", Builder: "Codecasa", Type: "Motor Yacht", LengthM: 65, Region: domain.RegionMediterranean, Cabins: 5, Guests: 10, WeeklyRate: 155000, Currency: "EUR"},
	{Name: "CARIBBEAN DREAM", Builder: "Westport", Type: "Motor Yacht", LengthM: 40, Region: domain.RegionCaribbean, Cabins: 4, Guests: 8, WeeklyRate: 85000, Currency: "USD"},
	{Name: "TROPICAL BLISS", Builder: "Hatteras", Type: "Motor Yacht", LengthM: 32, Region: domain.RegionCaribbean, Cabins: 3, Guests: 6, WeeklyRate: 55000, Currency: "USD"},
	{Name: "ISLAND TIME", Builder: "Lagoon", Type: "Catamaran", LengthM: 25, Region: domain.RegionCaribbean, Cabins: 4, Guests: 8, WeeklyRate: 32000, Currency: "USD"},
	{Name: "PARADISE FOUND", Builder: "Trinity", Type: "Motor Yacht", LengthM: 58, Region: domain.RegionCaribbean, Cabins: 5, Guests: 10, WeeklyRate: 125000, Currency: "USD"},
	{Name: "OCEAN BREEZE", Builder: "Fountaine Pajot", Type: "Catamaran", LengthM: 20, Region: domain.RegionCaribbean, Cabins: 3, Guests: 6, WeeklyRate: 25000, Currency: "USD"},
	{Name: "WINDWARD", Builder: "Oyster", Type: "Sailing Yacht", LengthM: 37, Region: domain.RegionCaribbean, Cabins: 3, Guests: 6, WeeklyRate: 45000, Currency: "USD"},
	{Name: "AZURE SKY", Builder: "Viking", Type: "Motor Yacht", LengthM: 24, Region: domain.RegionCaribbean, Cabins: 2, Guests: 4, WeeklyRate: 35000, Currency: "USD"},
	{Name: "SAPPHIRE", Builder: "Christensen", Type: "Motor Yacht", LengthM: 48, Region: domain.RegionCaribbean, Cabins: 4, Guests: 8, WeeklyRate: 95000, Currency: "USD"},
	{Name: "WAVE DANCER", Builder: "Bali", Type: "Catamaran", LengthM: 18, Region: domain.RegionCaribbean, Cabins: 3, Guests: 6, WeeklyRate: 22000, Currency: "USD"},
	{Name: "SUNSET CRUISE", Builder: "Palmer Johnson", Type: "Motor Yacht", LengthM: 46, Region: domain.RegionCaribbean, Cabins: 4, Guests: 8, WeeklyRate: 88000, Currency: "USD"},
	{Name: "BAHAMA MAMA", Builder: "Lazzara", Type: "Motor Yacht", LengthM: 35, Region: domain.RegionBahamas, Cabins: 3, Guests: 6, WeeklyRate: 58000, Currency: "USD"},
	{Name: "CONCH REPUBLIC", Builder: "Sea Ray", Type: "Motor Yacht", LengthM: 28, Region: domain.RegionBahamas, Cabins: 2, Guests: 4, WeeklyRate: 38000, Currency: "USD"},
	{Name: "EXUMA EXPLORER", Builder: "Nordhavn", Type: "Motor Yacht", LengthM: 43, Region: domain.RegionBahamas, Cabins: 4, Guests: 8, WeeklyRate: 75000, Currency: "USD"},
	{Name: "CRYSTAL WATERS", Builder: "Leopard", Type: "Catamaran", LengthM: 23, Region: domain.RegionBahamas, Cabins: 4, Guests: 8, WeeklyRate: 35000, Currency: "USD"},
	{Name: "ISLAND HOPPER", Builder: "Boston Whaler", Type: "Motor Yacht", LengthM: 20, Region: domain.RegionBahamas, Cabins: 2, Guests: 4, WeeklyRate: 25000, Currency: "USD"},
	{Name: "NASSAU NIGHTS", Builder: "Ocean Alexander", Type: "Motor Yacht", LengthM: 38, Region: domain.RegionBahamas, Cabins: 3, Guests: 6, WeeklyRate: 62000, Currency: "USD"},
	{Name: "BLUE LAGOON", Builder: "Sunseeker", Type: "Motor Yacht", LengthM: 31, Region: domain.RegionBahamas, Cabins: 3, Guests: 6, WeeklyRate: 48000, Currency: "USD"},
	{Name: "TRADE WINDS", Builder: "Jeanneau", Type: "Sailing Yacht", LengthM: 16, Region: domain.RegionBahamas, Cabins: 2, Guests: 4, WeeklyRate: 18000, Currency: "USD"},
	{Name: "ATLANTIS DREAM", Builder: "Hargrave", Type: "Motor Yacht", LengthM: 42, Region: domain.RegionBahamas, Cabins: 4, Guests: 8, WeeklyRate: 72000, Currency: "USD"},
	{Name: "PARADISE COVE", Builder: "Azimut", Type: "Motor Yacht", LengthM: 26, Region: domain.RegionBahamas, Cabins: 2, Guests: 4, WeeklyRate: 32000, Currency: "USD"},
}
