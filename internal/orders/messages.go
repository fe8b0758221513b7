package orders

// User-facing Arabic messages. Operator logs stay in English; these are the
// only strings a customer ever sees.
const (
	MsgEmptyItems       = "السلة فارغة، الرجاء إضافة منتجات"
	MsgMissingCustomer  = "الرجاء إدخال الاسم ورقم الهاتف ومنطقة التوصيل"
	MsgInvalidPhone     = "رقم الهاتف غير صحيح، يجب أن يبدأ بـ 09 ويتكون من 10 أرقام"
	MsgInvalidArea      = "منطقة التوصيل غير متوفرة حالياً"
	MsgInvalidSubtotal  = "قيمة الطلب غير صحيحة"
	MsgInvalidFee       = "رسوم التوصيل غير صحيحة"
	MsgTotalMismatch    = "الإجمالي لا يطابق مجموع الطلب ورسوم التوصيل"
	MsgSecurityRejected = "عذراً، لا يمكن إتمام الطلب حالياً. الرجاء المحاولة لاحقاً"
	MsgServerError      = "حدث خطأ غير متوقع، الرجاء المحاولة مرة أخرى"
	MsgOrderNotFound    = "الطلب غير موجود"
	MsgInvalidStatus    = "حالة الطلب غير صحيحة"
	MsgStockPrefix      = "الكمية المطلوبة غير متوفرة: "
)
